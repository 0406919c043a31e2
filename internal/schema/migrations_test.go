package schema

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/utiligas/casedesk/pkg/errors"
)

func newSchemaMock(t *testing.T) (*Manager, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	m := NewManager(sqlx.NewDb(db, "sqlmock"), zap.NewNop())
	return m, mock, func() { db.Close() }
}

func pragmaRows(columns ...[2]string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"})
	for i, col := range columns {
		rows.AddRow(i, col[0], col[1], 0, nil, 0)
	}
	return rows
}

func expectNoApplied(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT name FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))
}

func expectRecorded(mock sqlmock.Sqlmock, name string) {
	mock.ExpectExec("INSERT OR IGNORE INTO schema_migrations").
		WithArgs(name, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestMigrateRecordsStepsOnUpToDateStore(t *testing.T) {
	m, mock, cleanup := newSchemaMock(t)
	defer cleanup()

	expectNoApplied(mock)

	mock.ExpectQuery(`PRAGMA table_info\(cases\)`).
		WillReturnRows(pragmaRows([2]string{"id", "INTEGER"}, [2]string{"received_date", "TEXT"}))
	expectRecorded(mock, "cases_add_received_date")

	mock.ExpectQuery(`PRAGMA table_info\(audit_log\)`).
		WillReturnRows(pragmaRows([2]string{"id", "INTEGER"}, [2]string{"performed_by_name", "TEXT"}))
	expectRecorded(mock, "audit_log_add_performed_by_name")

	mock.ExpectQuery(`PRAGMA table_info\(correspondences\)`).
		WillReturnRows(pragmaRows([2]string{"id", "INTEGER"}, [2]string{"modified_date", "TEXT"}))
	expectRecorded(mock, "correspondences_add_modified_date")

	mock.ExpectQuery(`PRAGMA table_info\(employees\)`).
		WillReturnRows(pragmaRows([2]string{"id", "INTEGER"}, [2]string{"performance_number", "INTEGER"}))
	expectRecorded(mock, "employees_performance_number_integer")

	require.NoError(t, m.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateSkipsAppliedSteps(t *testing.T) {
	m, mock, cleanup := newSchemaMock(t)
	defer cleanup()

	applied := sqlmock.NewRows([]string{"name"})
	for _, step := range migrations() {
		applied.AddRow(step.name)
	}
	mock.ExpectQuery("SELECT name FROM schema_migrations").WillReturnRows(applied)

	require.NoError(t, m.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateAddsMissingColumn(t *testing.T) {
	m, mock, cleanup := newSchemaMock(t)
	defer cleanup()

	expectNoApplied(mock)

	mock.ExpectQuery(`PRAGMA table_info\(cases\)`).
		WillReturnRows(pragmaRows([2]string{"id", "INTEGER"}, [2]string{"created_date", "TEXT"}))
	mock.ExpectExec("ALTER TABLE cases ADD COLUMN received_date TEXT").
		WillReturnResult(sqlmock.NewResult(0, 0))
	expectRecorded(mock, "cases_add_received_date")

	mock.ExpectQuery(`PRAGMA table_info\(audit_log\)`).
		WillReturnRows(pragmaRows([2]string{"performed_by_name", "TEXT"}))
	expectRecorded(mock, "audit_log_add_performed_by_name")

	mock.ExpectQuery(`PRAGMA table_info\(correspondences\)`).
		WillReturnRows(pragmaRows([2]string{"modified_date", "TEXT"}))
	expectRecorded(mock, "correspondences_add_modified_date")

	mock.ExpectQuery(`PRAGMA table_info\(employees\)`).
		WillReturnRows(pragmaRows([2]string{"performance_number", "INTEGER"}))
	expectRecorded(mock, "employees_performance_number_integer")

	require.NoError(t, m.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateContinuesPastNonCriticalFailure(t *testing.T) {
	m, mock, cleanup := newSchemaMock(t)
	defer cleanup()

	expectNoApplied(mock)

	// The additive step fails but startup must go on; the step stays
	// unrecorded so it is retried next run.
	mock.ExpectQuery(`PRAGMA table_info\(cases\)`).
		WillReturnError(errors.New("disk I/O error"))

	mock.ExpectQuery(`PRAGMA table_info\(audit_log\)`).
		WillReturnRows(pragmaRows([2]string{"performed_by_name", "TEXT"}))
	expectRecorded(mock, "audit_log_add_performed_by_name")

	mock.ExpectQuery(`PRAGMA table_info\(correspondences\)`).
		WillReturnRows(pragmaRows([2]string{"modified_date", "TEXT"}))
	expectRecorded(mock, "correspondences_add_modified_date")

	mock.ExpectQuery(`PRAGMA table_info\(employees\)`).
		WillReturnRows(pragmaRows([2]string{"performance_number", "INTEGER"}))
	expectRecorded(mock, "employees_performance_number_integer")

	require.NoError(t, m.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateAbortsOnCriticalFailure(t *testing.T) {
	m, mock, cleanup := newSchemaMock(t)
	defer cleanup()

	expectNoApplied(mock)

	mock.ExpectQuery(`PRAGMA table_info\(cases\)`).
		WillReturnRows(pragmaRows([2]string{"received_date", "TEXT"}))
	expectRecorded(mock, "cases_add_received_date")

	mock.ExpectQuery(`PRAGMA table_info\(audit_log\)`).
		WillReturnRows(pragmaRows([2]string{"performed_by_name", "TEXT"}))
	expectRecorded(mock, "audit_log_add_performed_by_name")

	mock.ExpectQuery(`PRAGMA table_info\(correspondences\)`).
		WillReturnRows(pragmaRows([2]string{"modified_date", "TEXT"}))
	expectRecorded(mock, "correspondences_add_modified_date")

	mock.ExpectQuery(`PRAGMA table_info\(employees\)`).
		WillReturnError(errors.New("disk I/O error"))

	err := m.Migrate(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMigrationFailed.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileRebuildsLegacyTextColumn(t *testing.T) {
	m, mock, cleanup := newSchemaMock(t)
	defer cleanup()

	mock.ExpectQuery(`PRAGMA table_info\(employees\)`).
		WillReturnRows(pragmaRows(
			[2]string{"id", "INTEGER"},
			[2]string{"name", "TEXT"},
			[2]string{"position", "TEXT"},
			[2]string{"performance_number", "TEXT"},
			[2]string{"created_date", "TEXT"},
			[2]string{"is_active", "INTEGER"},
		))

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE employees_new").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, name, position, performance_number, created_date, is_active FROM employees").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "position", "performance_number", "created_date", "is_active"}).
			AddRow(1, "admin", "System Administrator", "1", "2025-01-01 08:00:00", 1).
			AddRow(2, "Ahmed Mohamed", "Agent", "1001", "2025-01-01 08:00:00", 1).
			AddRow(3, "Fatima Ali", "Engineer", "broken", "2025-01-01 08:00:00", 1).
			AddRow(4, "Mohamed Hassan", "Technician", "1001", "2025-01-01 08:00:00", 0))

	// Row 1 keeps its numeric value; row 3 is non-numeric and row 4 collides
	// with row 2, so both receive generated numbers from 1002 upward.
	mock.ExpectExec("INSERT INTO employees_new").
		WithArgs(int64(1), "admin", "System Administrator", int64(1), "2025-01-01 08:00:00", int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO employees_new").
		WithArgs(int64(2), "Ahmed Mohamed", "Agent", int64(1001), "2025-01-01 08:00:00", int64(1)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO employees_new").
		WithArgs(int64(3), "Fatima Ali", "Engineer", int64(1002), "2025-01-01 08:00:00", int64(1)).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO employees_new").
		WithArgs(int64(4), "Mohamed Hassan", "Technician", int64(1003), "2025-01-01 08:00:00", int64(0)).
		WillReturnResult(sqlmock.NewResult(4, 1))

	mock.ExpectExec("DROP TABLE employees").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ALTER TABLE employees_new RENAME TO employees").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, m.reconcilePerformanceNumberType(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
