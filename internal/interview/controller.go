package interview

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fmuoria/career-coach/internal/apperr"
	"github.com/fmuoria/career-coach/internal/events"
	"github.com/fmuoria/career-coach/internal/llm"
	"github.com/fmuoria/career-coach/internal/lock"
	"github.com/fmuoria/career-coach/internal/logging"
	"github.com/fmuoria/career-coach/internal/models"
	"github.com/fmuoria/career-coach/internal/resume"
	"github.com/fmuoria/career-coach/internal/store"
)

// DefaultMaxQuestions is the interview length when none is configured
const DefaultMaxQuestions = 8

// Controller drives the question/answer loop of mock interviews.
// Answers to one session are serialized by the locker and, as a second
// line, by the version check on every session write.
type Controller struct {
	resumes      store.IResume
	sessions     store.ISession
	completer    llm.Completer
	locker       lock.Locker
	publisher    events.Publisher
	maxQuestions int
	lockWait     time.Duration
}

// NewController creates a new interview controller
func NewController(resumes store.IResume, sessions store.ISession, completer llm.Completer, locker lock.Locker, publisher events.Publisher, maxQuestions int) *Controller {
	if maxQuestions < 1 {
		maxQuestions = DefaultMaxQuestions
	}
	if locker == nil {
		locker = lock.NewLocal()
	}
	if publisher == nil {
		publisher = &events.Dummy{}
	}
	return &Controller{
		resumes:      resumes,
		sessions:     sessions,
		completer:    completer,
		locker:       locker,
		publisher:    publisher,
		maxQuestions: maxQuestions,
		lockWait:     3 * time.Minute,
	}
}

// MaxQuestions returns the configured interview length
func (c *Controller) MaxQuestions() int {
	return c.maxQuestions
}

// Start opens a session against a resume owned by uid and returns the first question.
// Nothing is stored unless every check and the completion succeed.
func (c *Controller) Start(ctx context.Context, uid string, req models.StartInterviewRequest) (*models.StartInterviewResponse, error) {
	resumeHex := strings.TrimSpace(req.ResumeID)
	domain := strings.TrimSpace(req.Domain)
	if resumeHex == "" {
		return nil, apperr.InvalidInput("resumeId is required")
	}
	if domain == "" {
		return nil, apperr.InvalidInput("domain is required")
	}
	resumeID, ok := store.ParseID(resumeHex)
	if !ok {
		return nil, apperr.InvalidInput("Invalid resume id")
	}

	res, err := resume.Owned(ctx, c.resumes, uid, resumeID)
	if err != nil {
		return nil, err
	}

	// finish the round trip even if the client goes away
	work := context.WithoutCancel(ctx)

	question, err := c.completer.Complete(work, BuildOpeningPrompt(res, domain, c.maxQuestions))
	if err != nil {
		return nil, apperr.Default(err, apperr.KindUpstreamFailure, "AI completion failed")
	}

	session := &models.InterviewSession{
		UserID:    uid,
		ResumeID:  res.ID,
		Domain:    domain,
		Questions: []string{strings.TrimSpace(question)},
		Answers:   []string{},
	}
	if err := c.sessions.Create(work, session); err != nil {
		return nil, apperr.Internal("Failed to save interview", err)
	}

	logging.Logger(ctx).Info("Interview started",
		zap.String("interview_id", session.ID.Hex()),
		zap.String("uid", uid),
		zap.String("domain", domain))

	return &models.StartInterviewResponse{
		InterviewID: session.ID.Hex(),
		Question:    session.Questions[0],
	}, nil
}

// Answer records the answer to the open question, then either asks the next
// question or, once the last question is answered, stores the final feedback.
func (c *Controller) Answer(ctx context.Context, uid string, req models.AnswerRequest) (*models.AnswerResponse, error) {
	idHex := strings.TrimSpace(req.InterviewID)
	if idHex == "" {
		return nil, apperr.InvalidInput("interviewId is required")
	}
	sessionID, ok := store.ParseID(idHex)
	if !ok {
		return nil, apperr.InvalidInput("Invalid interview id")
	}

	lockCtx, cancel := context.WithTimeout(ctx, c.lockWait)
	unlock, err := c.locker.Lock(lockCtx, "interview:"+sessionID.Hex())
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, apperr.Conflict("Another answer for this interview is still being processed")
		}
		return nil, apperr.Internal("Failed to lock interview", err)
	}
	defer unlock()

	session, err := c.ownedSession(ctx, uid, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Concluded() {
		return nil, apperr.InvalidState("Interview already concluded")
	}
	if len(session.Answers) >= len(session.Questions) {
		return nil, apperr.InvalidState("No open question to answer")
	}

	res, err := resume.Owned(ctx, c.resumes, uid, session.ResumeID)
	if err != nil {
		return nil, err
	}

	session.Answers = append(session.Answers, strings.TrimSpace(req.Answer))
	work := context.WithoutCancel(ctx)
	log := logging.Logger(ctx).With(zap.String("interview_id", sessionID.Hex()))

	if len(session.Questions) >= c.maxQuestions {
		feedback, err := c.completer.Complete(work, BuildFeedbackPrompt(res, session))
		if err != nil {
			return nil, apperr.Default(err, apperr.KindUpstreamFailure, "AI completion failed")
		}
		session.Feedback = &feedback

		if err := c.persist(work, session); err != nil {
			return nil, err
		}
		log.Info("Interview concluded", zap.Int("questions", len(session.Questions)))

		events.Emit(work, c.publisher, events.RoutingInterviewConcluded, events.InterviewConcluded{
			EventID:     uuid.NewString(),
			InterviewID: sessionID.Hex(),
			UserID:      uid,
			ResumeID:    session.ResumeID.Hex(),
			Domain:      session.Domain,
			Questions:   len(session.Questions),
			Score:       ParseScore(feedback),
			Passed:      IsPassed(feedback),
			OccurredAt:  time.Now().UTC(),
		})

		return &models.AnswerResponse{Done: true, Feedback: feedback}, nil
	}

	next, err := c.completer.Complete(work, BuildFollowUpPrompt(res, session, c.maxQuestions))
	if err != nil {
		return nil, apperr.Default(err, apperr.KindUpstreamFailure, "AI completion failed")
	}
	next = strings.TrimSpace(next)
	session.Questions = append(session.Questions, next)

	if err := c.persist(work, session); err != nil {
		return nil, err
	}
	log.Debug("Next question asked", zap.Int("question", len(session.Questions)))

	return &models.AnswerResponse{Done: false, Question: next}, nil
}

// Get returns one session owned by uid
func (c *Controller) Get(ctx context.Context, uid, id string) (*models.InterviewSession, error) {
	sessionID, ok := store.ParseID(id)
	if !ok {
		return nil, apperr.InvalidInput("Invalid interview id")
	}
	return c.ownedSession(ctx, uid, sessionID)
}

// ListByUser returns every session started by uid, newest first
func (c *Controller) ListByUser(ctx context.Context, uid string) ([]models.InterviewSession, error) {
	sessions, err := c.sessions.ListByUser(ctx, uid)
	if err != nil {
		return nil, apperr.Internal("Failed to load interviews", err)
	}
	return sessions, nil
}

func (c *Controller) ownedSession(ctx context.Context, uid string, id store.ObjectID) (*models.InterviewSession, error) {
	session, err := c.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Interview not found")
		}
		return nil, apperr.Internal("Failed to load interview", err)
	}
	if session.UserID != uid {
		return nil, apperr.AccessDenied("You do not have access to this interview")
	}
	return session, nil
}

func (c *Controller) persist(ctx context.Context, session *models.InterviewSession) error {
	err := c.sessions.Update(ctx, session)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrVersionConflict):
		return apperr.Conflict("Interview was updated by another request, please retry")
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound("Interview not found")
	default:
		return apperr.Internal("Failed to save interview", err)
	}
}
