package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fmuoria/career-coach/internal/models"
)

// NewMemory returns a Repository kept in process memory. Returned values
// are copies, so callers never alias stored state.
func NewMemory() *Repository {
	m := &memory{
		users:    map[string]models.User{},
		resumes:  map[primitive.ObjectID]models.Resume{},
		sessions: map[primitive.ObjectID]models.InterviewSession{},
	}
	return &Repository{
		User:    memoryUser{m},
		Resume:  memoryResume{m},
		Session: memorySession{m},
	}
}

type memory struct {
	mu       sync.RWMutex
	users    map[string]models.User
	resumes  map[primitive.ObjectID]models.Resume
	sessions map[primitive.ObjectID]models.InterviewSession
}

type memoryUser struct{ m *memory }

func (r memoryUser) Create(_ context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[user.UID]; ok {
		return ErrDuplicate
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now()
	r.m.users[user.UID] = *user
	return nil
}

func (r memoryUser) GetByUID(_ context.Context, uid string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	user, ok := r.m.users[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

type memoryResume struct{ m *memory }

func (r memoryResume) Create(_ context.Context, resume *models.Resume) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	resume.ID = primitive.NewObjectID()
	resume.CreatedAt = now()
	resume.UpdatedAt = resume.CreatedAt
	r.m.resumes[resume.ID] = copyResume(*resume)
	return nil
}

func (r memoryResume) Get(_ context.Context, id primitive.ObjectID) (*models.Resume, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	resume, ok := r.m.resumes[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyResume(resume)
	return &out, nil
}

func (r memoryResume) ListByUser(_ context.Context, uid string) ([]models.Resume, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []models.Resume{}
	for _, resume := range r.m.resumes {
		if resume.UserID == uid {
			out = append(out, copyResume(resume))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt.UnixNano(), out[j].CreatedAt.UnixNano(), out[i].ID, out[j].ID)
	})
	return out, nil
}

type memorySession struct{ m *memory }

func (r memorySession) Create(_ context.Context, session *models.InterviewSession) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	session.ID = primitive.NewObjectID()
	session.CreatedAt = now()
	session.UpdatedAt = session.CreatedAt
	session.Version = 0
	r.m.sessions[session.ID] = copySession(*session)
	return nil
}

func (r memorySession) Get(_ context.Context, id primitive.ObjectID) (*models.InterviewSession, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	session, ok := r.m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copySession(session)
	return &out, nil
}

func (r memorySession) ListByUser(_ context.Context, uid string) ([]models.InterviewSession, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []models.InterviewSession{}
	for _, session := range r.m.sessions {
		if session.UserID == uid {
			out = append(out, copySession(session))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt.UnixNano(), out[j].CreatedAt.UnixNano(), out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r memorySession) Update(_ context.Context, session *models.InterviewSession) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.sessions[session.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != session.Version {
		return ErrVersionConflict
	}

	stored.Questions = session.Questions
	stored.Answers = session.Answers
	if session.Feedback != nil {
		stored.Feedback = session.Feedback
	}
	stored.Version++
	stored.UpdatedAt = now()
	r.m.sessions[session.ID] = copySession(stored)

	session.Version = stored.Version
	session.UpdatedAt = stored.UpdatedAt
	return nil
}

// newer orders by creation time descending, falling back to id for ties
func newer(a, b int64, idA, idB primitive.ObjectID) bool {
	if a != b {
		return a > b
	}
	return idA.Hex() > idB.Hex()
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyResume(r models.Resume) models.Resume {
	r.Skills = copyStrings(r.Skills)
	r.Missing = copyStrings(r.Missing)
	r.Suggestions = copyStrings(r.Suggestions)

	if r.Projects != nil {
		projects := make([]models.Project, len(r.Projects))
		for i, p := range r.Projects {
			p.Technologies = copyStrings(p.Technologies)
			p.Description = copyStrings(p.Description)
			projects[i] = p
		}
		r.Projects = projects
	}
	if r.Education != nil {
		r.Education = append([]models.Education(nil), r.Education...)
	}
	if r.Experience != nil {
		experience := make([]models.Experience, len(r.Experience))
		for i, e := range r.Experience {
			e.Description = copyStrings(e.Description)
			experience[i] = e
		}
		r.Experience = experience
	}
	return r
}

func copySession(s models.InterviewSession) models.InterviewSession {
	s.Questions = copyStrings(s.Questions)
	s.Answers = copyStrings(s.Answers)
	if s.Feedback != nil {
		fb := *s.Feedback
		s.Feedback = &fb
	}
	return s
}
