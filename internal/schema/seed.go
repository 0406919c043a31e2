package schema

import (
	"context"
	"fmt"
	"time"

	"github.com/utiligas/casedesk/internal/models"
)

type seedEmployee struct {
	name              string
	position          string
	performanceNumber int64
}

var defaultEmployees = []seedEmployee{
	{"Ahmed Mohamed", "Customer Service Agent", 1001},
	{"Fatima Ali", "Maintenance Engineer", 1002},
	{"Mohamed Hassan", "Senior Technician", 1003},
}

type seedCategory struct {
	name        string
	description string
	color       string
}

var defaultCategories = []seedCategory{
	{"Meter tampering", "Manipulated readings or a broken meter", "#e74c3c"},
	{"Illegal connection", "Unlicensed gas connections", "#e67e22"},
	{"Reading error", "Incorrect meter reading", "#f39c12"},
	{"Billing issue", "Problems with invoices and payments", "#9b59b6"},
	{"Activity change", "Request to change the activity type", "#3498db"},
	{"Meter number correction", "Correction of meter numbers", "#1abc9c"},
	{"Subscription transfer", "Transfer of the subscription to another site", "#2ecc71"},
	{"Broken display", "Broken or damaged meter display", "#e74c3c"},
	{"Meter malfunction", "Technical meter faults", "#c0392b"},
	{"Demolition and removal", "Demolition or connection removal requests", "#7f8c8d"},
	{"Other", "Unclassified issues", "#95a5a6"},
}

// EnsureSeedData inserts the bootstrap employees, the reserved administrator
// and the fixed category taxonomy. Inserts are keyed on the unique name
// columns with an insert-or-ignore policy, so re-running at every startup is
// a no-op once seeded.
func (m *Manager) EnsureSeedData(ctx context.Context) error {
	now := time.Now().Format(models.TimeLayout)

	var adminCount int
	if err := m.db.GetContext(ctx, &adminCount,
		"SELECT COUNT(*) FROM employees WHERE performance_number = ?", models.AdminPerformanceNumber); err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if adminCount == 0 {
		if _, err := m.db.ExecContext(ctx,
			`INSERT INTO employees (name, position, performance_number, created_date, is_active)
			 VALUES (?, ?, ?, ?, 1)`,
			"admin", "System Administrator", models.AdminPerformanceNumber, now); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	for _, emp := range defaultEmployees {
		if _, err := m.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO employees (name, position, performance_number, created_date, is_active)
			 VALUES (?, ?, ?, ?, 1)`,
			emp.name, emp.position, emp.performanceNumber, now); err != nil {
			return fmt.Errorf("seed employee %s: %w", emp.name, err)
		}
	}

	for _, cat := range defaultCategories {
		if _, err := m.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO issue_categories (category_name, description, color_code)
			 VALUES (?, ?, ?)`,
			cat.name, cat.description, cat.color); err != nil {
			return fmt.Errorf("seed category %s: %w", cat.name, err)
		}
	}

	return nil
}
