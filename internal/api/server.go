package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/fmuoria/career-coach/internal/apperr"
	"github.com/fmuoria/career-coach/internal/auth"
	"github.com/fmuoria/career-coach/internal/export"
	"github.com/fmuoria/career-coach/internal/interview"
	"github.com/fmuoria/career-coach/internal/logging"
	"github.com/fmuoria/career-coach/internal/models"
	"github.com/fmuoria/career-coach/internal/profile"
	"github.com/fmuoria/career-coach/internal/resume"
)

const (
	multipartMemory = 32 << 20
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the HTTP surface
type Options struct {
	BaseURL        string
	CORSOrigins    []string
	MaxUploadBytes int64
}

// Server handles HTTP requests
type Server struct {
	verifier   auth.Verifier
	profiles   *profile.Service
	resumes    *resume.Service
	interviews *interview.Controller
	store      Pinger
	opts       Options
}

// NewServer creates a new API server
func NewServer(verifier auth.Verifier, profiles *profile.Service, resumes *resume.Service, interviews *interview.Controller, store Pinger, opts Options) *Server {
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{
		verifier:   verifier,
		profiles:   profiles,
		resumes:    resumes,
		interviews: interviews,
		store:      store,
		opts:       opts,
	}
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireIdentity)

		r.Route("/users", func(r chi.Router) {
			r.Post("/create", s.handleCreateUser)
			r.Get("/{uid}", s.handleGetUser)
			r.Get("/{uid}/summary", s.handleUserSummary)
		})

		r.Route("/resume", func(r chi.Router) {
			r.Post("/upload", s.handleResumeUpload)
			r.Get("/user", s.handleListResumes)
			r.Get("/{id}", s.handleGetResume)
		})

		r.Route("/interview", func(r chi.Router) {
			r.Post("/start", s.handleStartInterview)
			r.Post("/answer", s.handleAnswer)
			r.Get("/user", s.handleListInterviews)
			r.Get("/export", s.handleExport)
			r.Get("/{id}", s.handleGetInterview)
		})
	})

	return r
}

// handleRoot provides API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"service": "AI Career Coach API",
		"status":  "running",
		"endpoints": map[string]string{
			"POST /api/users/create":     "Create the caller's profile",
			"POST /api/resume/upload":    "Upload and analyze a PDF resume",
			"POST /api/interview/start":  "Start a mock interview for a resume",
			"POST /api/interview/answer": "Answer the open interview question",
			"GET /api/interview/export":  "Download interviews and resumes as xlsx",
		},
	}
	if s.opts.BaseURL != "" {
		info["baseUrl"] = s.opts.BaseURL
	}
	if s.interviews != nil {
		info["maxQuestions"] = s.interviews.MaxQuestions()
	}
	s.respondJSON(w, r, http.StatusOK, info)
}

// handleHealth pings the store
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		logging.Logger(r.Context()).Warn("Health check failed", zap.Error(err))
		s.respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	user, err := s.profiles.CreateUser(r.Context(), callerUID(r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.profiles.GetUser(r.Context(), callerUID(r), chi.URLParam(r, "uid"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, user)
}

func (s *Server) handleUserSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.profiles.Summary(r.Context(), callerUID(r), chi.URLParam(r, "uid"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, summary)
}

// handleResumeUpload ingests the multipart field "resume"
func (s *Server) handleResumeUpload(w http.ResponseWriter, r *http.Request) {
	if s.opts.MaxUploadBytes > 0 {
		// room for the multipart envelope around the file
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+1<<20)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, apperr.InvalidInput("Uploaded file is too large"))
			return
		}
		if errors.Is(err, http.ErrNotMultipart) {
			s.respondError(w, r, apperr.InvalidInput("No file uploaded"))
			return
		}
		s.respondError(w, r, apperr.InvalidInput(fmt.Sprintf("Failed to parse form: %v", err)))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.respondError(w, r, apperr.InvalidInput("No file uploaded"))
		return
	}
	defer file.Close()

	res, err := s.resumes.Ingest(r.Context(), callerUID(r), header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	list, err := s.resumes.ListByUser(r.Context(), callerUID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	res, err := s.resumes.Get(r.Context(), callerUID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var req models.StartInterviewRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, err := s.interviews.Start(r.Context(), callerUID(r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.AnswerRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, err := s.interviews.Answer(r.Context(), callerUID(r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	list, err := s.interviews.ListByUser(r.Context(), callerUID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	session, err := s.interviews.Get(r.Context(), callerUID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, session)
}

// handleExport streams the caller's sessions and resumes as a workbook
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	uid := callerUID(r)

	sessions, err := s.interviews.ListByUser(r.Context(), uid)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resumes, err := s.resumes.ListByUser(r.Context(), uid)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, uid, sessions, resumes); err != nil {
		s.respondError(w, r, apperr.Internal("Failed to build export", err))
		return
	}

	filename := fmt.Sprintf("career_coach_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Logger(r.Context()).Warn("Failed to write export", zap.Error(err))
	}
}

// requireIdentity is the access gate for every /api route
func (s *Server) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			s.respondError(w, r, apperr.Unauthorized("Missing or invalid authorization header"))
			return
		}

		id, err := s.verifier.Verify(r.Context(), token)
		if err != nil {
			s.respondError(w, r, apperr.Default(err, apperr.KindUnauthorized, "Invalid or expired token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

func callerUID(r *http.Request) string {
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		return id.SubjectID
	}
	return ""
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, r, apperr.InvalidInput("Invalid request body"))
		return false
	}
	return true
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Logger(r.Context()).Warn("Failed to encode JSON response", zap.Error(err))
	}
}

// respondError maps err to its status and a {"message": ...} body
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logging.Logger(r.Context()).Error("Request failed",
			zap.String("kind", kind.String()),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	s.respondJSON(w, r, status, map[string]string{
		"message": apperr.Message(err),
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logging.Logger(r.Context()).Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}
