package models

// Attachment references a file associated with a case, either linked in
// place or copied into a case-dedicated folder. The store holds only the
// path; file existence is checked at open time, not at write time.
type Attachment struct {
	ID          int64   `db:"id" json:"id"`
	CaseID      int64   `db:"case_id" json:"case_id"`
	FileName    string  `db:"file_name" json:"file_name"`
	FilePath    string  `db:"file_path" json:"file_path"`
	FileType    *string `db:"file_type" json:"file_type,omitempty"`
	Description *string `db:"description" json:"description,omitempty"`
	UploadDate  *string `db:"upload_date" json:"upload_date,omitempty"`
	UploadedBy  *int64  `db:"uploaded_by" json:"uploaded_by,omitempty"`
}

// AttachmentDetail adds the uploader display name for listing.
type AttachmentDetail struct {
	Attachment
	UploadedByName *string `db:"uploaded_by_name" json:"uploaded_by_name,omitempty"`
}
