package models

// AdminPerformanceNumber is the reserved administrator login. The admin row
// is excluded from normal employee listings and can log in regardless of the
// active flag.
const AdminPerformanceNumber = 1

// Employee represents a staff member who can be attributed as creator,
// modifier or solver of a case. Employees are never physically removed;
// deactivation flips the active flag so historical references stay intact.
// Position and created date are pointers because legacy stores carry NULLs
// in both columns.
type Employee struct {
	ID                int64   `db:"id" json:"id"`
	Name              string  `db:"name" json:"name"`
	Position          *string `db:"position" json:"position,omitempty"`
	PerformanceNumber int64   `db:"performance_number" json:"performance_number"`
	CreatedDate       *string `db:"created_date" json:"created_date,omitempty"`
	Active            bool    `db:"is_active" json:"is_active"`
}
