package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/utiligas/casedesk/internal/models"
)

// AuditRepository appends and reads the immutable per-case action trail.
// There is no update or single-row delete; the only removal path is the
// case cascade.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append writes one audit entry.
func (r *AuditRepository) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	const query = `INSERT INTO audit_log (
        case_id, action_type, action_description, performed_by, performed_by_name,
        timestamp, old_values, new_values
    ) VALUES (
        :case_id, :action_type, :action_description, :performed_by, :performed_by_name,
        :timestamp, :old_values, :new_values
    )`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListByCase returns the case's trail, newest first.
func (r *AuditRepository) ListByCase(ctx context.Context, caseID int64) ([]models.AuditLogEntry, error) {
	const query = `SELECT * FROM audit_log WHERE case_id = ? ORDER BY timestamp DESC, id DESC`
	list := []models.AuditLogEntry{}
	if err := r.db.SelectContext(ctx, &list, query, caseID); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return list, nil
}
