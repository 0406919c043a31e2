package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/models"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
)

type correspondenceRepository interface {
	Create(ctx context.Context, co *models.Correspondence) (int64, error)
	ListByCase(ctx context.Context, caseID int64) ([]models.CorrespondenceDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Correspondence, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
	NextSequenceNumbers(ctx context.Context, caseID int64, year int) (*models.SequenceNumbers, error)
}

// CorrespondenceRequest holds the payload for adding a correspondence.
type CorrespondenceRequest struct {
	Sender         string `json:"sender" validate:"required"`
	MessageContent string `json:"message_content" validate:"required"`
	SentDate       string `json:"sent_date"`
}

// CorrespondenceService handles message use-cases on a case.
type CorrespondenceService struct {
	repo      correspondenceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCorrespondenceService constructs the correspondence service.
func NewCorrespondenceService(repo correspondenceRepository, validate *validator.Validate, logger *zap.Logger) *CorrespondenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CorrespondenceService{repo: repo, validator: validate, logger: logger}
}

// Add records a new correspondence on the case. Sequence numbers are
// allocated by the repository inside the insert transaction; the values on
// the returned record are the committed ones.
func (s *CorrespondenceService) Add(ctx context.Context, caseID int64, req CorrespondenceRequest, actorID int64) (*models.Correspondence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid correspondence payload")
	}

	now := time.Now().Format(models.TimeLayout)
	sentDate := req.SentDate
	if sentDate == "" {
		sentDate = now
	} else if _, err := time.Parse(models.TimeLayout, sentDate); err != nil {
		if _, err := time.Parse(models.DateLayout, sentDate); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "malformed sent date")
		}
	}

	co := &models.Correspondence{
		CaseID:         caseID,
		Sender:         &req.Sender,
		MessageContent: &req.MessageContent,
		SentDate:       &sentDate,
		CreatedBy:      &actorID,
		CreatedDate:    &now,
	}
	if _, err := s.repo.Create(ctx, co); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create correspondence")
	}
	return co, nil
}

// ListByCase returns the case's correspondence, newest sent first.
func (s *CorrespondenceService) ListByCase(ctx context.Context, caseID int64) ([]models.CorrespondenceDetail, error) {
	list, err := s.repo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list correspondences")
	}
	return list, nil
}

// Get returns one correspondence.
func (s *CorrespondenceService) Get(ctx context.Context, id int64) (*models.Correspondence, error) {
	co, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "correspondence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load correspondence")
	}
	return co, nil
}

// UpdateContent edits the message text. Sequence numbers stay as allocated.
func (s *CorrespondenceService) UpdateContent(ctx context.Context, id int64, content string) (*models.Correspondence, error) {
	if content == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message content is required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateContent(ctx, id, content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update correspondence")
	}
	return s.Get(ctx, id)
}

// Delete removes one correspondence without renumbering the rest.
func (s *CorrespondenceService) Delete(ctx context.Context, id int64) (*models.Correspondence, error) {
	co, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete correspondence")
	}
	return co, nil
}

// NextSequenceNumbers previews the pair the next correspondence would get.
// The preview is advisory; the committed values are allocated at insert.
func (s *CorrespondenceService) NextSequenceNumbers(ctx context.Context, caseID int64) (*models.SequenceNumbers, error) {
	seq, err := s.repo.NextSequenceNumbers(ctx, caseID, time.Now().Year())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute sequence numbers")
	}
	return seq, nil
}
