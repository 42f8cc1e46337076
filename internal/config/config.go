package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderVertex = "vertex"
)

// Config holds application configuration
type Config struct {
	Port            string
	BaseURL         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	MongoURI      string
	MongoDatabase string

	LLMProvider         string
	GeminiAPIKey        string
	ResumeModel         string
	InterviewModel      string
	GoogleCloudProject  string
	GoogleCloudLocation string
	LLMTimeout          time.Duration
	LLMMaxAttempts      int
	LLMRetryBackoff     time.Duration

	FirebaseCredentialsJSON string
	FirebaseCredentialsFile string

	MaxQuestions int

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisNamespace string
	LockTTL        time.Duration

	RabbitMQURL      string
	RabbitMQExchange string

	ArchiveBucket    string
	ArchiveEndpoint  string
	ArchiveAccessKey string
	ArchiveSecretKey string
	ArchiveRegion    string

	LogLevel  string
	LogPretty bool

	UploadsDir     string
	MaxUploadBytes int64
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		Port:                    "3000",
		CORSOrigins:             []string{"*"},
		ShutdownTimeout:         5 * time.Second,
		MongoDatabase:           "career_coach",
		LLMProvider:             ProviderGemini,
		ResumeModel:             "gemini-2.5-flash",
		InterviewModel:          "gemini-2.5-flash",
		GoogleCloudLocation:     "us-central1",
		LLMTimeout:              60 * time.Second,
		LLMMaxAttempts:          2,
		LLMRetryBackoff:         2 * time.Second,
		FirebaseCredentialsFile: "serviceAccountKey.json",
		MaxQuestions:            8,
		RedisNamespace:          "career-coach",
		LockTTL:                 5 * time.Minute,
		RabbitMQExchange:        "career_coach.events",
		ArchiveRegion:           "auto",
		LogLevel:                "info",
		UploadsDir:              "uploads",
		MaxUploadBytes:          10 << 20,
	}
}

// viper key -> accepted env names, earlier names win
var envBindings = map[string][]string{
	"server.port":               {"PORT"},
	"server.base_url":           {"BACKEND_BASE_URL"},
	"server.cors_origins":       {"CORS_ORIGINS"},
	"server.shutdown_timeout":   {"SHUTDOWN_TIMEOUT"},
	"mongo.uri":                 {"MONGO_URI", "MONGO_LOCAL_URI"},
	"mongo.database":            {"MONGO_DATABASE"},
	"llm.provider":              {"LLM_PROVIDER"},
	"llm.api_key":               {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"llm.resume_model":          {"LLM_RESUME_MODEL"},
	"llm.interview_model":       {"LLM_INTERVIEW_MODEL"},
	"llm.project":               {"GOOGLE_CLOUD_PROJECT"},
	"llm.location":              {"GOOGLE_CLOUD_LOCATION"},
	"llm.timeout":               {"LLM_TIMEOUT"},
	"llm.max_attempts":          {"LLM_MAX_ATTEMPTS"},
	"llm.retry_backoff":         {"LLM_RETRY_BACKOFF"},
	"firebase.credentials":      {"FIREBASE_ADMIN_SDK"},
	"firebase.credentials_file": {"FIREBASE_CREDENTIALS_FILE"},
	"interview.max_questions":   {"INTERVIEW_MAX_QUESTIONS"},
	"redis.address":             {"REDIS_ADDR"},
	"redis.password":            {"REDIS_PASSWORD"},
	"redis.db":                  {"REDIS_DB"},
	"redis.namespace":           {"REDIS_NAMESPACE"},
	"redis.lock_ttl":            {"SESSION_LOCK_TTL"},
	"rabbitmq.url":              {"RABBITMQ_URL"},
	"rabbitmq.exchange":         {"RABBITMQ_EXCHANGE"},
	"archive.bucket":            {"ARCHIVE_BUCKET"},
	"archive.endpoint":          {"ARCHIVE_ENDPOINT"},
	"archive.access_key":        {"ARCHIVE_ACCESS_KEY"},
	"archive.secret_key":        {"ARCHIVE_SECRET_KEY"},
	"archive.region":            {"ARCHIVE_REGION"},
	"log.level":                 {"LOG_LEVEL"},
	"log.pretty":                {"LOG_PRETTY"},
	"uploads.dir":               {"UPLOADS_DIR"},
	"uploads.max_bytes":         {"MAX_UPLOAD_BYTES"},
}

// Load reads .env (if present) and the environment
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from an optional YAML/JSON file, with
// environment variables taking precedence over file values.
func LoadFrom(path string) (*Config, error) {
	_ = godotenv.Load() // ok if missing in prod

	v := viper.New()
	setDefaults(v, DefaultConfig())

	for key, names := range envBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.port", d.Port)
	v.SetDefault("server.cors_origins", strings.Join(d.CORSOrigins, ","))
	v.SetDefault("server.shutdown_timeout", d.ShutdownTimeout)
	v.SetDefault("mongo.database", d.MongoDatabase)
	v.SetDefault("llm.provider", d.LLMProvider)
	v.SetDefault("llm.resume_model", d.ResumeModel)
	v.SetDefault("llm.interview_model", d.InterviewModel)
	v.SetDefault("llm.location", d.GoogleCloudLocation)
	v.SetDefault("llm.timeout", d.LLMTimeout)
	v.SetDefault("llm.max_attempts", d.LLMMaxAttempts)
	v.SetDefault("llm.retry_backoff", d.LLMRetryBackoff)
	v.SetDefault("firebase.credentials_file", d.FirebaseCredentialsFile)
	v.SetDefault("interview.max_questions", d.MaxQuestions)
	v.SetDefault("redis.namespace", d.RedisNamespace)
	v.SetDefault("redis.lock_ttl", d.LockTTL)
	v.SetDefault("rabbitmq.exchange", d.RabbitMQExchange)
	v.SetDefault("archive.region", d.ArchiveRegion)
	v.SetDefault("log.level", d.LogLevel)
	v.SetDefault("uploads.dir", d.UploadsDir)
	v.SetDefault("uploads.max_bytes", d.MaxUploadBytes)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:                    v.GetString("server.port"),
		BaseURL:                 v.GetString("server.base_url"),
		CORSOrigins:             splitList(v.GetString("server.cors_origins")),
		ShutdownTimeout:         v.GetDuration("server.shutdown_timeout"),
		MongoURI:                v.GetString("mongo.uri"),
		MongoDatabase:           v.GetString("mongo.database"),
		LLMProvider:             strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
		GeminiAPIKey:            v.GetString("llm.api_key"),
		ResumeModel:             v.GetString("llm.resume_model"),
		InterviewModel:          v.GetString("llm.interview_model"),
		GoogleCloudProject:      v.GetString("llm.project"),
		GoogleCloudLocation:     v.GetString("llm.location"),
		LLMTimeout:              v.GetDuration("llm.timeout"),
		LLMMaxAttempts:          v.GetInt("llm.max_attempts"),
		LLMRetryBackoff:         v.GetDuration("llm.retry_backoff"),
		FirebaseCredentialsJSON: v.GetString("firebase.credentials"),
		FirebaseCredentialsFile: v.GetString("firebase.credentials_file"),
		MaxQuestions:            v.GetInt("interview.max_questions"),
		RedisAddr:               v.GetString("redis.address"),
		RedisPassword:           v.GetString("redis.password"),
		RedisDB:                 v.GetInt("redis.db"),
		RedisNamespace:          v.GetString("redis.namespace"),
		LockTTL:                 v.GetDuration("redis.lock_ttl"),
		RabbitMQURL:             v.GetString("rabbitmq.url"),
		RabbitMQExchange:        v.GetString("rabbitmq.exchange"),
		ArchiveBucket:           v.GetString("archive.bucket"),
		ArchiveEndpoint:         v.GetString("archive.endpoint"),
		ArchiveAccessKey:        v.GetString("archive.access_key"),
		ArchiveSecretKey:        v.GetString("archive.secret_key"),
		ArchiveRegion:           v.GetString("archive.region"),
		LogLevel:                v.GetString("log.level"),
		LogPretty:               v.GetBool("log.pretty"),
		UploadsDir:              v.GetString("uploads.dir"),
		MaxUploadBytes:          v.GetInt64("uploads.max_bytes"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks if the configuration is valid.
// Missing AI or identity credentials are fatal at startup.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("mongo uri is required (MONGO_URI)")
	}

	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is missing in environment")
		}
	case ProviderVertex:
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("google_cloud_project is required for the vertex provider")
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLMProvider)
	}

	if c.FirebaseCredentialsJSON == "" {
		if c.FirebaseCredentialsFile == "" {
			return fmt.Errorf("no Firebase credentials found (FIREBASE_ADMIN_SDK or credentials file)")
		}
		if _, err := os.Stat(c.FirebaseCredentialsFile); err != nil {
			return fmt.Errorf("no Firebase credentials found (FIREBASE_ADMIN_SDK or %s): %w", c.FirebaseCredentialsFile, err)
		}
	}

	if c.MaxQuestions < 1 {
		return fmt.Errorf("interview max questions must be positive, got %d", c.MaxQuestions)
	}
	if c.LLMMaxAttempts < 1 {
		return fmt.Errorf("llm max attempts must be positive, got %d", c.LLMMaxAttempts)
	}
	if budget := c.CompletionBudget(); c.LockTTL <= budget {
		return fmt.Errorf("session lock ttl %s must exceed the worst-case completion time %s", c.LockTTL, budget)
	}

	if c.ArchiveBucket != "" && (c.ArchiveAccessKey == "" || c.ArchiveSecretKey == "") {
		return fmt.Errorf("archive bucket %s configured without access keys", c.ArchiveBucket)
	}

	return nil
}

// CompletionBudget is the longest one retried completion can take:
// every attempt timing out plus the linear backoff between attempts.
func (c *Config) CompletionBudget() time.Duration {
	n := time.Duration(c.LLMMaxAttempts)
	return c.LLMTimeout*n + c.LLMRetryBackoff*n*(n-1)/2
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return ":" + c.Port
}
