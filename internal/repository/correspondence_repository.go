package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/utiligas/casedesk/internal/models"
)

// CorrespondenceRepository manages persistence for case correspondence,
// including allocation of the dual sequence numbers.
type CorrespondenceRepository struct {
	db *sqlx.DB
}

// NewCorrespondenceRepository constructs a CorrespondenceRepository.
func NewCorrespondenceRepository(db *sqlx.DB) *CorrespondenceRepository {
	return &CorrespondenceRepository{db: db}
}

const nextCaseSequenceQuery = `SELECT COALESCE(MAX(case_sequence_number), 0) + 1
        FROM correspondences WHERE case_id = ?`

// The yearly number is stored as "N-YYYY"; the numeric prefix is extracted
// and the maximum over all rows tagged with the year is taken, independent
// of which case each row belongs to.
const nextYearSequenceQuery = `SELECT COALESCE(MAX(CAST(SUBSTR(yearly_sequence_number, 1,
        INSTR(yearly_sequence_number, '-') - 1) AS INTEGER)), 0) + 1
        FROM correspondences WHERE yearly_sequence_number LIKE ?`

// NextSequenceNumbers computes the sequence pair the next correspondence on
// the case would receive, without reserving it.
func (r *CorrespondenceRepository) NextSequenceNumbers(ctx context.Context, caseID int64, year int) (*models.SequenceNumbers, error) {
	return nextSequenceNumbers(ctx, r.db, caseID, year)
}

func nextSequenceNumbers(ctx context.Context, q sqlx.QueryerContext, caseID int64, year int) (*models.SequenceNumbers, error) {
	var caseSeq int64
	if err := sqlx.GetContext(ctx, q, &caseSeq, nextCaseSequenceQuery, caseID); err != nil {
		return nil, fmt.Errorf("next case sequence: %w", err)
	}

	var yearSeq int64
	if err := sqlx.GetContext(ctx, q, &yearSeq, nextYearSequenceQuery, fmt.Sprintf("%%-%d", year)); err != nil {
		return nil, fmt.Errorf("next year sequence: %w", err)
	}

	return &models.SequenceNumbers{
		CaseSequence:   caseSeq,
		YearlySequence: fmt.Sprintf("%d-%d", yearSeq, year),
	}, nil
}

// Create allocates both sequence numbers and inserts the correspondence in
// one transaction, so the read-then-insert pair is atomic against any other
// writing transaction on the same store file.
func (r *CorrespondenceRepository) Create(ctx context.Context, co *models.Correspondence) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin correspondence insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	seq, err := nextSequenceNumbers(ctx, tx, co.CaseID, time.Now().Year())
	if err != nil {
		return 0, err
	}
	co.CaseSequenceNumber = seq.CaseSequence
	co.YearlySequenceNumber = seq.YearlySequence

	const query = `INSERT INTO correspondences (
        case_id, case_sequence_number, yearly_sequence_number, sender,
        message_content, sent_date, created_by, created_date
    ) VALUES (
        :case_id, :case_sequence_number, :yearly_sequence_number, :sender,
        :message_content, :sent_date, :created_by, :created_date
    )`
	res, err := tx.NamedExecContext(ctx, query, co)
	if err != nil {
		return 0, fmt.Errorf("create correspondence: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("correspondence id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit correspondence insert: %w", err)
	}
	co.ID = id
	return id, nil
}

// ListByCase returns the case's correspondence, newest sent first.
func (r *CorrespondenceRepository) ListByCase(ctx context.Context, caseID int64) ([]models.CorrespondenceDetail, error) {
	const query = `SELECT co.*, e.name AS created_by_name
        FROM correspondences co
        LEFT JOIN employees e ON co.created_by = e.id
        WHERE co.case_id = ?
        ORDER BY co.sent_date DESC`
	list := []models.CorrespondenceDetail{}
	if err := r.db.SelectContext(ctx, &list, query, caseID); err != nil {
		return nil, fmt.Errorf("list correspondences: %w", err)
	}
	return list, nil
}

// FindByID fetches one correspondence row.
func (r *CorrespondenceRepository) FindByID(ctx context.Context, id int64) (*models.Correspondence, error) {
	var co models.Correspondence
	if err := r.db.GetContext(ctx, &co, "SELECT * FROM correspondences WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &co, nil
}

// UpdateContent edits the message content in place. Sequence numbers are
// never touched by an edit.
func (r *CorrespondenceRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	const query = `UPDATE correspondences SET message_content = ?, modified_date = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, content, time.Now().Format(models.TimeLayout), id); err != nil {
		return fmt.Errorf("update correspondence: %w", err)
	}
	return nil
}

// Delete removes one correspondence. Remaining rows are never renumbered;
// the gap is expected.
func (r *CorrespondenceRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM correspondences WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete correspondence: %w", err)
	}
	return nil
}
