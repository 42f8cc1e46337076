package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fmuoria/career-coach/internal/models"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicate       = errors.New("document already exists")
	ErrVersionConflict = errors.New("document was modified concurrently")
)

type IUser interface {
	Create(ctx context.Context, user *models.User) error
	GetByUID(ctx context.Context, uid string) (*models.User, error)
}

type IResume interface {
	Create(ctx context.Context, resume *models.Resume) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Resume, error)
	ListByUser(ctx context.Context, uid string) ([]models.Resume, error)
}

type ISession interface {
	Create(ctx context.Context, session *models.InterviewSession) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.InterviewSession, error)
	ListByUser(ctx context.Context, uid string) ([]models.InterviewSession, error)
	// Update replaces questions, answers and feedback only if the stored
	// version still equals session.Version, then bumps the version.
	Update(ctx context.Context, session *models.InterviewSession) error
}

// ObjectID is the document id type used by every collection
type ObjectID = primitive.ObjectID

// Repository groups the collections used by the services
type Repository struct {
	User    IUser
	Resume  IResume
	Session ISession

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks the backing database
func (r *Repository) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

// Close releases the backing connection
func (r *Repository) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}

// ParseID converts a hex id from a request into an ObjectID
func ParseID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
