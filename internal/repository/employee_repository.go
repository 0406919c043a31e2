package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/utiligas/casedesk/internal/models"
)

// EmployeeRepository manages the staff roster. The reserved administrator
// row is filtered out of listings here rather than in every caller.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employees ordered by name, excluding the administrator.
// With activeOnly set, deactivated employees are filtered out too.
func (r *EmployeeRepository) List(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	query := "SELECT * FROM employees WHERE performance_number != ?"
	args := []interface{}{models.AdminPerformanceNumber}
	if activeOnly {
		query += " AND is_active = 1"
	}
	query += " ORDER BY name"

	list := []models.Employee{}
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return list, nil
}

// FindByID fetches one employee row.
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	var emp models.Employee
	if err := r.db.GetContext(ctx, &emp, "SELECT * FROM employees WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &emp, nil
}

// FindByPerformanceNumber looks up the login credential. Regular employees
// must be active to match; the administrator matches regardless of the flag.
func (r *EmployeeRepository) FindByPerformanceNumber(ctx context.Context, number int64) (*models.Employee, error) {
	query := "SELECT * FROM employees WHERE performance_number = ? AND is_active = 1"
	if number == models.AdminPerformanceNumber {
		query = "SELECT * FROM employees WHERE performance_number = ?"
	}
	var emp models.Employee
	if err := r.db.GetContext(ctx, &emp, query, number); err != nil {
		return nil, err
	}
	return &emp, nil
}

// ExistsByPerformanceNumber reports whether any employee, active or not,
// already holds the number.
func (r *EmployeeRepository) ExistsByPerformanceNumber(ctx context.Context, number int64) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM employees WHERE performance_number = ?", number); err != nil {
		return false, fmt.Errorf("check performance number: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new employee and returns the generated identity.
func (r *EmployeeRepository) Create(ctx context.Context, emp *models.Employee) (int64, error) {
	const query = `INSERT INTO employees (name, position, performance_number, created_date, is_active)
        VALUES (:name, :position, :performance_number, :created_date, :is_active)`
	res, err := r.db.NamedExecContext(ctx, query, emp)
	if err != nil {
		return 0, fmt.Errorf("create employee: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("employee id: %w", err)
	}
	emp.ID = id
	return id, nil
}

// Deactivate flips the active flag. Rows are never physically deleted so
// historical attributions on cases stay resolvable.
func (r *EmployeeRepository) Deactivate(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE employees SET is_active = 0 WHERE id = ?", id); err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	return nil
}

// NameByID resolves the display name for audit denormalization.
func (r *EmployeeRepository) NameByID(ctx context.Context, id int64) (string, error) {
	var name string
	if err := r.db.GetContext(ctx, &name, "SELECT name FROM employees WHERE id = ?", id); err != nil {
		return "", fmt.Errorf("resolve employee name: %w", err)
	}
	return name, nil
}
