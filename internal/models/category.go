package models

// IssueCategory is a fixed-vocabulary taxonomy entry for the complaint type.
// Categories are seeded once at first initialization and read-only afterward.
type IssueCategory struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"category_name" json:"category_name"`
	Description *string `db:"description" json:"description,omitempty"`
	ColorCode   string  `db:"color_code" json:"color_code"`
}

// StatusOption pairs a case status literal with its display color.
type StatusOption struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Case status vocabulary. This is a fixed constant set, not stored data.
const (
	StatusNew        = "new"
	StatusInProgress = "in-progress"
	StatusSolved     = "solved"
	StatusClosed     = "closed"
)

// StatusOptions lists the fixed status vocabulary with display colors.
func StatusOptions() []StatusOption {
	return []StatusOption{
		{Name: StatusNew, Color: "#3498db"},
		{Name: StatusInProgress, Color: "#f39c12"},
		{Name: StatusSolved, Color: "#27ae60"},
		{Name: StatusClosed, Color: "#95a5a6"},
	}
}
