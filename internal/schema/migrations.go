package schema

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/models"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
)

// migration is one named, idempotent upgrade step. Applied names are
// recorded in schema_migrations so the upgrade path is auditable instead of
// being inferred from swallowed ALTER failures.
type migration struct {
	name     string
	critical bool
	run      func(ctx context.Context, m *Manager) error
}

func migrations() []migration {
	return []migration{
		{
			name: "cases_add_received_date",
			run: func(ctx context.Context, m *Manager) error {
				return m.ensureColumn(ctx, "cases", "received_date", "TEXT")
			},
		},
		{
			name: "audit_log_add_performed_by_name",
			run: func(ctx context.Context, m *Manager) error {
				return m.ensureColumn(ctx, "audit_log", "performed_by_name", "TEXT")
			},
		},
		{
			name: "correspondences_add_modified_date",
			run: func(ctx context.Context, m *Manager) error {
				return m.ensureColumn(ctx, "correspondences", "modified_date", "TEXT")
			},
		},
		{
			// Legacy stores carried performance_number as free TEXT without a
			// reliable uniqueness constraint. This is a login credential, so
			// the reconciliation is the one migration whose failure aborts
			// startup.
			name:     "employees_performance_number_integer",
			critical: true,
			run: func(ctx context.Context, m *Manager) error {
				return m.reconcilePerformanceNumberType(ctx)
			},
		},
	}
}

// Migrate runs all unapplied migration steps in order. Non-critical step
// failures are logged and startup continues in degraded mode; a critical
// step failure is returned to the caller.
func (m *Manager) Migrate(ctx context.Context) error {
	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, step := range migrations() {
		if applied[step.name] {
			continue
		}
		if err := step.run(ctx, m); err != nil {
			if step.critical {
				return appErrors.Wrap(err, appErrors.ErrMigrationFailed.Code, appErrors.ErrMigrationFailed.Status,
					fmt.Sprintf("migration %s failed", step.name))
			}
			m.logger.Warn("migration step failed, continuing",
				zap.String("migration", step.name), zap.Error(err))
			continue
		}
		if err := m.recordMigration(ctx, step.name); err != nil {
			return err
		}
		m.logger.Info("migration applied", zap.String("migration", step.name))
	}
	return nil
}

func (m *Manager) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	var names []string
	if err := m.db.SelectContext(ctx, &names, "SELECT name FROM schema_migrations"); err != nil {
		return nil, fmt.Errorf("read applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(names))
	for _, n := range names {
		applied[n] = true
	}
	return applied, nil
}

func (m *Manager) recordMigration(ctx context.Context, name string) error {
	_, err := m.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO schema_migrations (name, applied_at) VALUES (?, ?)",
		name, time.Now().Format(models.TimeLayout))
	if err != nil {
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	return nil
}

// ensureColumn adds a column introduced in a later revision if the table
// does not have it yet. An "already exists" alter failure is logged and
// swallowed; legacy stores reach here through many paths.
func (m *Manager) ensureColumn(ctx context.Context, table, column, colType string) error {
	cols, err := m.tableColumns(ctx, m.db, table)
	if err != nil {
		return err
	}
	for _, c := range cols {
		if strings.EqualFold(c.Name, column) {
			return nil
		}
	}
	if _, err := m.db.ExecContext(ctx,
		fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, colType)); err != nil {
		if strings.Contains(err.Error(), "duplicate column") {
			m.logger.Debug("column already present", zap.String("table", table), zap.String("column", column))
			return nil
		}
		return fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return nil
}

type legacyEmployee struct {
	ID                int64   `db:"id"`
	Name              *string `db:"name"`
	Position          *string `db:"position"`
	PerformanceNumber *string `db:"performance_number"`
	CreatedDate       *string `db:"created_date"`
	Active            *int64  `db:"is_active"`
}

// reconcilePerformanceNumberType rebuilds the employees table when the
// performance_number column is still the legacy TEXT type or missing. Every
// row is copied; rows whose stored value is absent or non-numeric receive a
// freshly generated unique integer. The drop of the old table and the rename
// of the new one happen inside the same transaction as the copy, so a crash
// can never leave the store without an employees table.
func (m *Manager) reconcilePerformanceNumberType(ctx context.Context) error {
	cols, err := m.tableColumns(ctx, m.db, "employees")
	if err != nil {
		return err
	}

	needsRebuild := true
	for _, c := range cols {
		if strings.EqualFold(c.Name, "performance_number") && strings.EqualFold(c.Type, "INTEGER") {
			needsRebuild = false
		}
	}
	if !needsRebuild {
		return nil
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `CREATE TABLE employees_new (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		position TEXT,
		performance_number INTEGER UNIQUE NOT NULL,
		created_date TEXT,
		is_active INTEGER DEFAULT 1
	)`); err != nil {
		return fmt.Errorf("create rebuilt table: %w", err)
	}

	hasPerfColumn := false
	for _, c := range cols {
		if strings.EqualFold(c.Name, "performance_number") {
			hasPerfColumn = true
		}
	}
	selectCols := "id, name, position, created_date, is_active"
	if hasPerfColumn {
		selectCols = "id, name, position, performance_number, created_date, is_active"
	}

	var rows []legacyEmployee
	if err := tx.SelectContext(ctx, &rows, "SELECT "+selectCols+" FROM employees ORDER BY id"); err != nil {
		return fmt.Errorf("read legacy employees: %w", err)
	}

	used := map[int64]bool{}
	nextNumber := int64(1001)
	assign := func(raw *string) int64 {
		if raw != nil {
			if n, err := strconv.ParseInt(strings.TrimSpace(*raw), 10, 64); err == nil && !used[n] {
				used[n] = true
				return n
			}
		}
		for used[nextNumber] {
			nextNumber++
		}
		used[nextNumber] = true
		return nextNumber
	}

	for _, emp := range rows {
		number := assign(emp.PerformanceNumber)
		active := int64(1)
		if emp.Active != nil {
			active = *emp.Active
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO employees_new (id, name, position, performance_number, created_date, is_active)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			emp.ID, emp.Name, emp.Position, number, emp.CreatedDate, active); err != nil {
			return fmt.Errorf("copy employee %d: %w", emp.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE employees"); err != nil {
		return fmt.Errorf("drop legacy table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "ALTER TABLE employees_new RENAME TO employees"); err != nil {
		return fmt.Errorf("rename rebuilt table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}
