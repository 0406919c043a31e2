package models

// Timestamp layouts used throughout the store. Dates are persisted as TEXT
// in these exact formats so that strftime-based year filtering keeps working
// against stores created by earlier versions of the system.
const (
	TimeLayout = "2006-01-02 15:04:05"
	DateLayout = "2006-01-02"
)

// YearAll is the sentinel meaning "no year filter".
const YearAll = "all"
