package resume

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fmuoria/career-coach/internal/apperr"
	"github.com/fmuoria/career-coach/internal/archive"
	"github.com/fmuoria/career-coach/internal/events"
	"github.com/fmuoria/career-coach/internal/ingestion"
	"github.com/fmuoria/career-coach/internal/llm"
	"github.com/fmuoria/career-coach/internal/logging"
	"github.com/fmuoria/career-coach/internal/models"
	"github.com/fmuoria/career-coach/internal/store"
)

// Service turns uploaded PDFs into stored resume analyses
type Service struct {
	files     *ingestion.FileHandler
	completer llm.Completer
	resumes   store.IResume
	archiver  archive.Archiver
	publisher events.Publisher
}

// NewService creates a new resume service
func NewService(files *ingestion.FileHandler, completer llm.Completer, resumes store.IResume, archiver archive.Archiver, publisher events.Publisher) *Service {
	if archiver == nil {
		archiver = archive.Noop{}
	}
	if publisher == nil {
		publisher = &events.Dummy{}
	}
	return &Service{
		files:     files,
		completer: completer,
		resumes:   resumes,
		archiver:  archiver,
		publisher: publisher,
	}
}

// Ingest stores the upload, extracts its text, asks the model for the
// structured analysis and persists the normalized result for uid.
// The temporary upload is removed on every path.
func (s *Service) Ingest(ctx context.Context, uid, filename string, content io.Reader) (*models.Resume, error) {
	log := logging.Logger(ctx).With(zap.String("uid", uid))

	path, err := s.files.SaveUploadedFile(filename, content)
	if err != nil {
		if errors.Is(err, ingestion.ErrTooLarge) {
			return nil, apperr.InvalidInput("File is too large")
		}
		return nil, apperr.Internal("Failed to store upload", err)
	}
	defer func() {
		if err := s.files.Remove(path); err != nil {
			log.Warn("Failed to delete upload", zap.String("path", path), zap.Error(err))
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Internal("Failed to read upload", err)
	}
	if !ingestion.IsPDF(data) {
		return nil, apperr.InvalidInput("Only PDF files are supported")
	}

	text, err := ingestion.ExtractPDFText(data)
	if err != nil {
		log.Warn("PDF extraction failed", zap.Error(err))
		return nil, apperr.Internal("Could not read the PDF file", err)
	}
	text = sanitizeUTF8(text)
	if strings.TrimSpace(text) == "" {
		return nil, apperr.InvalidInput("The PDF contains no extractable text")
	}

	completion, err := s.completer.Complete(ctx, BuildExtractionPrompt(text))
	if err != nil {
		return nil, apperr.Default(err, apperr.KindUpstreamFailure, "AI completion failed")
	}

	resume, err := ParseCompletion(completion)
	if err != nil {
		log.Warn("Unusable resume analysis", zap.Error(err))
		return nil, err
	}
	resume.UserID = uid
	resume.RawText = text

	key, err := s.archiver.Put(ctx, archive.ResumeKey(uid, uuid.NewString()), data, "application/pdf")
	if err != nil {
		log.Warn("Failed to archive upload", zap.Error(err))
	}
	resume.SourceKey = key

	if err := s.resumes.Create(ctx, resume); err != nil {
		return nil, apperr.Internal("Failed to save resume", err)
	}
	log.Info("Resume analyzed",
		zap.String("resume_id", resume.ID.Hex()),
		zap.Int("ats_score", resume.ATSScore))

	events.Emit(ctx, s.publisher, events.RoutingResumeAnalyzed, events.ResumeAnalyzed{
		EventID:    uuid.NewString(),
		ResumeID:   resume.ID.Hex(),
		UserID:     uid,
		ATSScore:   resume.ATSScore,
		OccurredAt: time.Now().UTC(),
	})

	return resume, nil
}

// Get returns one resume owned by uid
func (s *Service) Get(ctx context.Context, uid, id string) (*models.Resume, error) {
	resumeID, ok := store.ParseID(id)
	if !ok {
		return nil, apperr.InvalidInput("Invalid resume id")
	}
	return Owned(ctx, s.resumes, uid, resumeID)
}

// ListByUser returns every resume uploaded by uid, newest first
func (s *Service) ListByUser(ctx context.Context, uid string) ([]models.Resume, error) {
	resumes, err := s.resumes.ListByUser(ctx, uid)
	if err != nil {
		return nil, apperr.Internal("Failed to load resumes", err)
	}
	return resumes, nil
}

// Owned loads a resume and checks that uid owns it
func Owned(ctx context.Context, resumes store.IResume, uid string, id store.ObjectID) (*models.Resume, error) {
	resume, err := resumes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Resume not found")
		}
		return nil, apperr.Internal("Failed to load resume", err)
	}
	if resume.UserID != uid {
		return nil, apperr.AccessDenied("You do not have access to this resume")
	}
	return resume, nil
}
