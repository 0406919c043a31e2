package models

// Correspondence is one inbound or outbound message tied to a case. It
// carries two independent sequence numbers: a case-local counter and a
// year-local counter rendered as "N-YYYY". Neither is ever reassigned;
// deleting a correspondence leaves a gap.
type Correspondence struct {
	ID                   int64   `db:"id" json:"id"`
	CaseID               int64   `db:"case_id" json:"case_id"`
	CaseSequenceNumber   int64   `db:"case_sequence_number" json:"case_sequence_number"`
	YearlySequenceNumber string  `db:"yearly_sequence_number" json:"yearly_sequence_number"`
	Sender               *string `db:"sender" json:"sender,omitempty"`
	MessageContent       *string `db:"message_content" json:"message_content,omitempty"`
	SentDate             *string `db:"sent_date" json:"sent_date,omitempty"`
	CreatedBy            *int64  `db:"created_by" json:"created_by,omitempty"`
	CreatedDate          *string `db:"created_date" json:"created_date,omitempty"`
	ModifiedDate         *string `db:"modified_date" json:"modified_date,omitempty"`
}

// CorrespondenceDetail adds the creator display name for listing.
type CorrespondenceDetail struct {
	Correspondence
	CreatedByName *string `db:"created_by_name" json:"created_by_name,omitempty"`
}

// SequenceNumbers is the pair allocated for the next correspondence.
type SequenceNumbers struct {
	CaseSequence   int64  `json:"case_sequence"`
	YearlySequence string `json:"yearly_sequence"`
}
