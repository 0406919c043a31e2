package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/models"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
)

type auditRepository interface {
	Append(ctx context.Context, entry *models.AuditLogEntry) error
	ListByCase(ctx context.Context, caseID int64) ([]models.AuditLogEntry, error)
}

type employeeNameResolver interface {
	NameByID(ctx context.Context, id int64) (string, error)
}

// AuditService appends to and reads the per-case action trail. Recording is
// an explicit call made by the presentation layer next to each mutating
// operation; the store itself never writes audit rows implicitly.
type AuditService struct {
	repo      auditRepository
	employees employeeNameResolver
	logger    *zap.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo auditRepository, employees employeeNameResolver, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, employees: employees, logger: logger}
}

// LogAction appends one audit entry. The actor display name is resolved and
// denormalized into the row at write time; if the resolution fails, the
// entry is still written with a null name rather than losing the event.
// Old and new values are stored as JSON snapshots when provided. Employee
// roster actions pass a zero case id and are recorded without a case
// reference.
func (s *AuditService) LogAction(ctx context.Context, caseID int64, actionType, description string, actorID int64, oldValues, newValues interface{}) error {
	entry := &models.AuditLogEntry{
		ActionType:  actionType,
		Description: description,
		Timestamp:   time.Now().Format(models.TimeLayout),
	}
	if caseID > 0 {
		entry.CaseID = &caseID
	}
	if actorID > 0 {
		entry.PerformedBy = &actorID
		if name, err := s.employees.NameByID(ctx, actorID); err == nil {
			entry.PerformedByName = &name
		} else {
			s.logger.Warn("could not resolve actor name for audit entry",
				zap.Int64("employee_id", actorID), zap.Error(err))
		}
	}

	if snapshot := encodeSnapshot(oldValues); snapshot != nil {
		entry.OldValues = snapshot
	}
	if snapshot := encodeSnapshot(newValues); snapshot != nil {
		entry.NewValues = snapshot
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record audit entry")
	}
	return nil
}

func encodeSnapshot(v interface{}) *string {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	encoded := string(raw)
	return &encoded
}

// History returns the case's trail, newest first.
func (s *AuditService) History(ctx context.Context, caseID int64) ([]models.AuditLogEntry, error) {
	entries, err := s.repo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit history")
	}
	return entries, nil
}
