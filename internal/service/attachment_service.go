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
	"github.com/utiligas/casedesk/pkg/settings"
	"github.com/utiligas/casedesk/pkg/storage"
)

type attachmentRepository interface {
	Create(ctx context.Context, a *models.Attachment) (int64, error)
	ListByCase(ctx context.Context, caseID int64) ([]models.AttachmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Attachment, error)
	Delete(ctx context.Context, id int64) error
}

// AttachmentRequest holds the payload for attaching a file to a case. With
// Copy set, the file is duplicated into the configured per-case folder and
// the record points at the copy; otherwise the record links the original in
// place.
type AttachmentRequest struct {
	FilePath    string  `json:"file_path" validate:"required"`
	Description *string `json:"description"`
	Copy        bool    `json:"copy"`
}

// AttachmentService handles attachment use-cases.
type AttachmentService struct {
	repo       attachmentRepository
	settings   *settings.Store
	defaultDir string
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAttachmentService constructs the attachment service. defaultDir is the
// copy destination used when the settings file does not override it.
func NewAttachmentService(repo attachmentRepository, settingsStore *settings.Store, defaultDir string, validate *validator.Validate, logger *zap.Logger) *AttachmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentService{repo: repo, settings: settingsStore, defaultDir: defaultDir, validator: validate, logger: logger}
}

func (s *AttachmentService) copyDestination() string {
	if s.settings != nil {
		if cfg, err := s.settings.Load(); err == nil && cfg.AttachmentsPath != "" {
			return cfg.AttachmentsPath
		}
	}
	return s.defaultDir
}

// Add records a file attachment on the case.
func (s *AttachmentService) Add(ctx context.Context, caseID int64, req AttachmentRequest, actorID int64) (*models.Attachment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrAttachmentNoPath, "")
	}

	var info storage.FileInfo
	var err error
	if req.Copy {
		info, err = storage.CopyToCaseFolder(req.FilePath, caseID, s.copyDestination())
	} else {
		info, err = storage.Describe(req.FilePath)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAttachmentNoPath.Code, appErrors.ErrAttachmentNoPath.Status, "failed to resolve attachment file")
	}

	now := time.Now().Format(models.TimeLayout)
	fileType := info.Type
	a := &models.Attachment{
		CaseID:      caseID,
		FileName:    info.Name,
		FilePath:    info.Path,
		FileType:    &fileType,
		Description: req.Description,
		UploadDate:  &now,
		UploadedBy:  &actorID,
	}
	if _, err := s.repo.Create(ctx, a); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attachment")
	}
	return a, nil
}

// ListByCase returns the case's attachments.
func (s *AttachmentService) ListByCase(ctx context.Context, caseID int64) ([]models.AttachmentDetail, error) {
	list, err := s.repo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attachments")
	}
	return list, nil
}

// Get returns one attachment.
func (s *AttachmentService) Get(ctx context.Context, id int64) (*models.Attachment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attachment")
	}
	return a, nil
}

// Delete removes the attachment record. The file itself stays on disk.
func (s *AttachmentService) Delete(ctx context.Context, id int64) (*models.Attachment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attachment")
	}
	return a, nil
}
