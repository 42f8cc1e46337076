package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/fmuoria/career-coach/internal/models"
)

const (
	usersCollection    = "users"
	resumesCollection  = "resumes"
	sessionsCollection = "interviewlogs"
)

// NewMongo connects to MongoDB, ensures indexes and returns a Repository
func NewMongo(ctx context.Context, uri, database string, logger *zap.Logger) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	logger.Info("Connected to MongoDB", zap.String("database", database))

	return &Repository{
		User:    &mongoUser{coll: db.Collection(usersCollection)},
		Resume:  &mongoResume{coll: db.Collection(resumesCollection)},
		Session: &mongoSession{coll: db.Collection(sessionsCollection)},
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: client.Disconnect,
	}, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		resumesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		sessionsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "resumeId", Value: 1}}},
		},
	}
	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// mongo stores milliseconds; truncating up front keeps returned values
// identical to what a later read yields
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

type mongoUser struct {
	coll *mongo.Collection
}

func (r *mongoUser) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now()
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *mongoUser) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"uid": uid}).Decode(&user); err != nil {
		return nil, notFound(err, "find user")
	}
	return &user, nil
}

type mongoResume struct {
	coll *mongo.Collection
}

func (r *mongoResume) Create(ctx context.Context, resume *models.Resume) error {
	resume.ID = primitive.NewObjectID()
	resume.CreatedAt = now()
	resume.UpdatedAt = resume.CreatedAt
	if _, err := r.coll.InsertOne(ctx, resume); err != nil {
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

func (r *mongoResume) Get(ctx context.Context, id primitive.ObjectID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&resume); err != nil {
		return nil, notFound(err, "find resume")
	}
	return &resume, nil
}

func (r *mongoResume) ListByUser(ctx context.Context, uid string) ([]models.Resume, error) {
	cur, err := r.coll.Find(ctx, bson.M{"userId": uid}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	resumes := []models.Resume{}
	if err := cur.All(ctx, &resumes); err != nil {
		return nil, fmt.Errorf("decode resumes: %w", err)
	}
	return resumes, nil
}

type mongoSession struct {
	coll *mongo.Collection
}

func (r *mongoSession) Create(ctx context.Context, session *models.InterviewSession) error {
	session.ID = primitive.NewObjectID()
	session.CreatedAt = now()
	session.UpdatedAt = session.CreatedAt
	session.Version = 0
	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *mongoSession) Get(ctx context.Context, id primitive.ObjectID) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, notFound(err, "find session")
	}
	return &session, nil
}

func (r *mongoSession) ListByUser(ctx context.Context, uid string) ([]models.InterviewSession, error) {
	cur, err := r.coll.Find(ctx, bson.M{"userId": uid}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sessions := []models.InterviewSession{}
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}

func (r *mongoSession) Update(ctx context.Context, session *models.InterviewSession) error {
	updatedAt := now()
	set := bson.M{
		"questions": session.Questions,
		"answers":   session.Answers,
		"updatedAt": updatedAt,
	}
	if session.Feedback != nil {
		set["feedback"] = *session.Feedback
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": session.ID, "version": session.Version},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": session.ID})
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}

	session.Version++
	session.UpdatedAt = updatedAt
	return nil
}

func notFound(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
