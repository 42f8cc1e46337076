package profile

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/fmuoria/career-coach/internal/apperr"
	"github.com/fmuoria/career-coach/internal/models"
	"github.com/fmuoria/career-coach/internal/store"
)

// Service manages user records and the profile dashboard
type Service struct {
	users    store.IUser
	resumes  store.IResume
	sessions store.ISession
}

func NewService(users store.IUser, resumes store.IResume, sessions store.ISession) *Service {
	return &Service{users: users, resumes: resumes, sessions: sessions}
}

// CreateUser stores the profile of the authenticated caller. The body uid
// must be the caller's own.
func (s *Service) CreateUser(ctx context.Context, callerUID string, req models.CreateUserRequest) (*models.User, error) {
	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		return nil, apperr.InvalidInput("uid is required")
	}
	if uid != callerUID {
		return nil, apperr.AccessDenied("You can only create your own profile")
	}

	user := &models.User{
		UID:   uid,
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Internal("Failed to create user", err)
	}
	return user, nil
}

// GetUser returns the caller's own profile
func (s *Service) GetUser(ctx context.Context, callerUID, uid string) (*models.User, error) {
	if uid != callerUID {
		return nil, apperr.AccessDenied("You can only view your own profile")
	}
	user, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Failed to load user", err)
	}
	return user, nil
}

// Summary aggregates the caller's resumes and interviews for the dashboard
func (s *Service) Summary(ctx context.Context, callerUID, uid string) (*models.ProfileSummary, error) {
	if uid != callerUID {
		return nil, apperr.AccessDenied("You can only view your own profile")
	}

	resumes, err := s.resumes.ListByUser(ctx, uid)
	if err != nil {
		return nil, apperr.Internal("Failed to load resumes", err)
	}
	sessions, err := s.sessions.ListByUser(ctx, uid)
	if err != nil {
		return nil, apperr.Internal("Failed to load interviews", err)
	}

	summary := &models.ProfileSummary{
		Resumes:    len(resumes),
		Interviews: len(sessions),
	}
	for _, session := range sessions {
		if session.Concluded() {
			summary.CompletedInterviews++
		}
	}
	if len(resumes) > 0 {
		total := 0
		for _, r := range resumes {
			total += r.ATSScore
		}
		summary.AverageATSScore = int(math.Round(float64(total) / float64(len(resumes))))
	}
	return summary, nil
}
