package models

// Audit action types written by the mutating operations.
const (
	AuditActionCreate               = "create"
	AuditActionUpdate               = "update"
	AuditActionDelete               = "delete"
	AuditActionAddCorrespondence    = "add-correspondence"
	AuditActionUpdateCorrespondence = "update-correspondence"
	AuditActionDeleteCorrespondence = "delete-correspondence"
	AuditActionAddAttachment        = "add-attachment"
	AuditActionDeleteAttachment     = "delete-attachment"
	AuditActionAddEmployee          = "add-employee"
	AuditActionDeactivateEmployee   = "deactivate-employee"
)

// AuditLogEntry is an immutable append-only record of an action taken on a
// case, or on the roster for employee actions (which carry no case). The
// actor display name is denormalized at write time so the trail stays
// readable after the employee record is deactivated or renamed.
type AuditLogEntry struct {
	ID              int64   `db:"id" json:"id"`
	CaseID          *int64  `db:"case_id" json:"case_id,omitempty"`
	ActionType      string  `db:"action_type" json:"action_type"`
	Description     string  `db:"action_description" json:"action_description"`
	PerformedBy     *int64  `db:"performed_by" json:"performed_by,omitempty"`
	PerformedByName *string `db:"performed_by_name" json:"performed_by_name,omitempty"`
	Timestamp       string  `db:"timestamp" json:"timestamp"`
	OldValues       *string `db:"old_values" json:"old_values,omitempty"`
	NewValues       *string `db:"new_values" json:"new_values,omitempty"`
}
