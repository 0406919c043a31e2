package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/utiligas/casedesk/internal/models"
)

// AttachmentRepository manages persistence for case attachments.
type AttachmentRepository struct {
	db *sqlx.DB
}

// NewAttachmentRepository constructs an AttachmentRepository.
func NewAttachmentRepository(db *sqlx.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create inserts a new attachment reference and returns its identity.
func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) (int64, error) {
	const query = `INSERT INTO attachments (
        case_id, file_name, file_path, file_type, description, upload_date, uploaded_by
    ) VALUES (
        :case_id, :file_name, :file_path, :file_type, :description, :upload_date, :uploaded_by
    )`
	res, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return 0, fmt.Errorf("create attachment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("attachment id: %w", err)
	}
	a.ID = id
	return id, nil
}

// ListByCase returns the case's attachments, newest upload first.
func (r *AttachmentRepository) ListByCase(ctx context.Context, caseID int64) ([]models.AttachmentDetail, error) {
	const query = `SELECT a.*, e.name AS uploaded_by_name
        FROM attachments a
        LEFT JOIN employees e ON a.uploaded_by = e.id
        WHERE a.case_id = ?
        ORDER BY a.upload_date DESC`
	list := []models.AttachmentDetail{}
	if err := r.db.SelectContext(ctx, &list, query, caseID); err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return list, nil
}

// FindByID fetches one attachment row.
func (r *AttachmentRepository) FindByID(ctx context.Context, id int64) (*models.Attachment, error) {
	var a models.Attachment
	if err := r.db.GetContext(ctx, &a, "SELECT * FROM attachments WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes the attachment row. The referenced file is left on disk.
func (r *AttachmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}
