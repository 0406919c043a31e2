package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/utiligas/casedesk/internal/models"
)

// CaseRepository manages persistence for complaint cases, including the
// dynamic search builder used by the list view and exports.
type CaseRepository struct {
	db *sqlx.DB
}

// NewCaseRepository constructs a CaseRepository.
func NewCaseRepository(db *sqlx.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

const caseSummaryColumns = `c.id, c.customer_name, c.subscriber_number, c.address, c.status,
        ic.category_name, ic.color_code, e.name AS modified_by_name,
        c.received_date, c.created_date, c.modified_date`

const caseSummaryJoins = `FROM cases c
        LEFT JOIN issue_categories ic ON c.category_id = ic.id
        LEFT JOIN employees e ON c.modified_by = e.id`

// Most-recently-touched cases surface first.
const caseSummaryOrder = "ORDER BY c.modified_date DESC, c.created_date DESC"

// Create inserts a new case and returns the generated identity.
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) (int64, error) {
	const query = `INSERT INTO cases (
        customer_name, subscriber_number, phone, address, category_id, status,
        problem_description, actions_taken, last_meter_reading, last_reading_date,
        debt_amount, received_date, created_date, created_by, modified_date, modified_by,
        solved_by, solved_date
    ) VALUES (
        :customer_name, :subscriber_number, :phone, :address, :category_id, :status,
        :problem_description, :actions_taken, :last_meter_reading, :last_reading_date,
        :debt_amount, :received_date, :created_date, :created_by, :modified_date, :modified_by,
        :solved_by, :solved_date
    )`
	res, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return 0, fmt.Errorf("create case: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("case id: %w", err)
	}
	c.ID = id
	return id, nil
}

// Update replaces the full row by identity. Callers supply the complete
// field set; this is a whole-row replace, not a patch.
func (r *CaseRepository) Update(ctx context.Context, c *models.Case) error {
	const query = `UPDATE cases SET
        customer_name = :customer_name, subscriber_number = :subscriber_number,
        phone = :phone, address = :address, category_id = :category_id, status = :status,
        problem_description = :problem_description, actions_taken = :actions_taken,
        last_meter_reading = :last_meter_reading, last_reading_date = :last_reading_date,
        debt_amount = :debt_amount, received_date = :received_date,
        modified_date = :modified_date, modified_by = :modified_by,
        solved_by = :solved_by, solved_date = :solved_date
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	return nil
}

// Delete removes a case and all dependent rows in dependency order inside
// one transaction. A failure on any statement rolls the whole cascade back,
// so a partial cascade is never observable.
func (r *CaseRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin case delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range []string{
		"DELETE FROM audit_log WHERE case_id = ?",
		"DELETE FROM attachments WHERE case_id = ?",
		"DELETE FROM correspondences WHERE case_id = ?",
		"DELETE FROM cases WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete case %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit case delete: %w", err)
	}
	return nil
}

// FindByID fetches the full case row joined with its category and the three
// actor display names.
func (r *CaseRepository) FindByID(ctx context.Context, id int64) (*models.CaseDetail, error) {
	const query = `SELECT c.*, ic.category_name, ic.color_code,
        creator.name AS created_by_name,
        modifier.name AS modified_by_name,
        solver.name AS solved_by_name
        FROM cases c
        LEFT JOIN issue_categories ic ON c.category_id = ic.id
        LEFT JOIN employees creator ON c.created_by = creator.id
        LEFT JOIN employees modifier ON c.modified_by = modifier.id
        LEFT JOIN employees solver ON c.solved_by = solver.id
        WHERE c.id = ?`
	var detail models.CaseDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByYear returns case summaries, optionally restricted to the calendar
// year of the creation timestamp. Pass models.YearAll (or "") for all years.
func (r *CaseRepository) ListByYear(ctx context.Context, year string) ([]models.CaseSummary, error) {
	query := fmt.Sprintf("SELECT %s %s", caseSummaryColumns, caseSummaryJoins)
	args := []interface{}{}
	if year != "" && year != models.YearAll {
		query += " WHERE strftime('%Y', c.created_date) = ?"
		args = append(args, year)
	}
	query += " " + caseSummaryOrder

	summaries := []models.CaseSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return summaries, nil
}

// Search translates the structured filter into a parameterized query. Every
// user-supplied value flows through bound parameters; no value is ever
// interpolated into the query text.
func (r *CaseRepository) Search(ctx context.Context, filter models.CaseSearchFilter) ([]models.CaseSummary, error) {
	query := fmt.Sprintf("SELECT DISTINCT %s %s", caseSummaryColumns, caseSummaryJoins)
	args := []interface{}{}
	conditions := []string{}

	if filter.Field == models.SearchFieldAll && filter.Value != "" {
		query += `
        LEFT JOIN correspondences co ON c.id = co.case_id
        LEFT JOIN attachments a ON c.id = a.case_id`
	}

	if filter.Value != "" {
		switch filter.Field {
		case models.SearchFieldAll:
			conditions = append(conditions, `(c.customer_name LIKE ? OR c.subscriber_number LIKE ?
            OR c.address LIKE ? OR c.problem_description LIKE ?
            OR c.actions_taken LIKE ? OR co.message_content LIKE ?
            OR a.description LIKE ?)`)
			pattern := "%" + filter.Value + "%"
			for i := 0; i < 7; i++ {
				args = append(args, pattern)
			}
		case models.SearchFieldCustomer, models.SearchFieldSubscriber, models.SearchFieldAddress:
			columns := map[string]string{
				models.SearchFieldCustomer:   "c.customer_name",
				models.SearchFieldSubscriber: "c.subscriber_number",
				models.SearchFieldAddress:    "c.address",
			}
			conditions = append(conditions, columns[filter.Field]+" LIKE ?")
			args = append(args, "%"+filter.Value+"%")
		case models.SearchFieldCategory, models.SearchFieldStatus, models.SearchFieldEmployee:
			columns := map[string]string{
				models.SearchFieldCategory: "ic.category_name",
				models.SearchFieldStatus:   "c.status",
				models.SearchFieldEmployee: "e.name",
			}
			conditions = append(conditions, columns[filter.Field]+" = ?")
			args = append(args, filter.Value)
		}
	}

	if filter.Year != "" && filter.Year != models.YearAll {
		dateColumn := "c.created_date"
		if filter.DateBasis == models.DateBasisReceived {
			dateColumn = "c.received_date"
		}
		conditions = append(conditions, fmt.Sprintf("strftime('%%Y', %s) = ?", dateColumn))
		args = append(args, filter.Year)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " " + caseSummaryOrder

	summaries := []models.CaseSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("search cases: %w", err)
	}
	return summaries, nil
}

// DistinctYears lists the calendar years present in the store, newest first.
func (r *CaseRepository) DistinctYears(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT strftime('%Y', created_date) AS year FROM cases
        WHERE created_date IS NOT NULL ORDER BY year DESC`
	years := []string{}
	if err := r.db.SelectContext(ctx, &years, query); err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	return years, nil
}

// Statistics aggregates counts for the stats panel.
func (r *CaseRepository) Statistics(ctx context.Context) (*models.CaseStatistics, error) {
	const query = `SELECT
        COUNT(*) AS total_cases,
        COALESCE(SUM(CASE WHEN status NOT IN (?, ?) THEN 1 ELSE 0 END), 0) AS active_cases,
        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS solved_cases,
        (SELECT COUNT(*) FROM correspondences) AS total_correspondences,
        (SELECT COUNT(*) FROM attachments) AS total_attachments
        FROM cases`
	var stats models.CaseStatistics
	if err := r.db.GetContext(ctx, &stats, query,
		models.StatusSolved, models.StatusClosed, models.StatusSolved); err != nil {
		return nil, fmt.Errorf("case statistics: %w", err)
	}
	return &stats, nil
}
