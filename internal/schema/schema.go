package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Manager owns the table definitions and in-place schema upgrades for
// previously-created stores. Every step is idempotent; the manager runs in
// full on each process start.
type Manager struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewManager constructs a schema manager.
func NewManager(db *sqlx.DB, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{db: db, logger: logger}
}

var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		position TEXT,
		performance_number INTEGER UNIQUE NOT NULL,
		created_date TEXT,
		is_active INTEGER DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS issue_categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_name TEXT UNIQUE NOT NULL,
		description TEXT,
		color_code TEXT DEFAULT '#3498db'
	)`,
	`CREATE TABLE IF NOT EXISTS cases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_name TEXT NOT NULL,
		subscriber_number TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		category_id INTEGER,
		status TEXT DEFAULT 'new',
		problem_description TEXT,
		actions_taken TEXT,
		last_meter_reading REAL,
		last_reading_date TEXT,
		debt_amount REAL DEFAULT 0,
		received_date TEXT,
		created_date TEXT,
		created_by INTEGER,
		modified_date TEXT,
		modified_by INTEGER,
		solved_by INTEGER,
		solved_date TEXT,
		FOREIGN KEY (category_id) REFERENCES issue_categories (id),
		FOREIGN KEY (created_by) REFERENCES employees (id),
		FOREIGN KEY (modified_by) REFERENCES employees (id),
		FOREIGN KEY (solved_by) REFERENCES employees (id)
	)`,
	`CREATE TABLE IF NOT EXISTS correspondences (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		case_id INTEGER,
		case_sequence_number INTEGER,
		yearly_sequence_number TEXT,
		sender TEXT,
		message_content TEXT,
		sent_date TEXT,
		created_by INTEGER,
		created_date TEXT,
		modified_date TEXT,
		FOREIGN KEY (case_id) REFERENCES cases (id),
		FOREIGN KEY (created_by) REFERENCES employees (id)
	)`,
	`CREATE TABLE IF NOT EXISTS attachments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		case_id INTEGER,
		file_name TEXT NOT NULL,
		file_path TEXT NOT NULL,
		file_type TEXT,
		description TEXT,
		upload_date TEXT,
		uploaded_by INTEGER,
		FOREIGN KEY (case_id) REFERENCES cases (id),
		FOREIGN KEY (uploaded_by) REFERENCES employees (id)
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		case_id INTEGER,
		action_type TEXT,
		action_description TEXT,
		performed_by INTEGER,
		performed_by_name TEXT,
		timestamp TEXT,
		old_values TEXT,
		new_values TEXT,
		FOREIGN KEY (case_id) REFERENCES cases (id),
		FOREIGN KEY (performed_by) REFERENCES employees (id)
	)`,
	`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`,
}

// EnsureSchema creates all tables if absent. Safe to call on every startup.
func (m *Manager) EnsureSchema(ctx context.Context) error {
	for _, stmt := range createStatements {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

type tableColumn struct {
	CID     int     `db:"cid"`
	Name    string  `db:"name"`
	Type    string  `db:"type"`
	NotNull int     `db:"notnull"`
	Default *string `db:"dflt_value"`
	PK      int     `db:"pk"`
}

func (m *Manager) tableColumns(ctx context.Context, q sqlx.QueryerContext, table string) ([]tableColumn, error) {
	var cols []tableColumn
	if err := sqlx.SelectContext(ctx, q, &cols, fmt.Sprintf("PRAGMA table_info(%s)", table)); err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	return cols, nil
}
