package models

// Case is the central entity: one customer complaint record.
type Case struct {
	ID                 int64    `db:"id" json:"id"`
	CustomerName       string   `db:"customer_name" json:"customer_name"`
	SubscriberNumber   string   `db:"subscriber_number" json:"subscriber_number"`
	Phone              *string  `db:"phone" json:"phone,omitempty"`
	Address            *string  `db:"address" json:"address,omitempty"`
	CategoryID         *int64   `db:"category_id" json:"category_id,omitempty"`
	Status             string   `db:"status" json:"status"`
	ProblemDescription *string  `db:"problem_description" json:"problem_description,omitempty"`
	ActionsTaken       *string  `db:"actions_taken" json:"actions_taken,omitempty"`
	LastMeterReading   *float64 `db:"last_meter_reading" json:"last_meter_reading,omitempty"`
	LastReadingDate    *string  `db:"last_reading_date" json:"last_reading_date,omitempty"`
	DebtAmount         float64  `db:"debt_amount" json:"debt_amount"`
	ReceivedDate       *string  `db:"received_date" json:"received_date,omitempty"`
	CreatedDate        string   `db:"created_date" json:"created_date"`
	CreatedBy          *int64   `db:"created_by" json:"created_by,omitempty"`
	ModifiedDate       *string  `db:"modified_date" json:"modified_date,omitempty"`
	ModifiedBy         *int64   `db:"modified_by" json:"modified_by,omitempty"`
	SolvedBy           *int64   `db:"solved_by" json:"solved_by,omitempty"`
	SolvedDate         *string  `db:"solved_date" json:"solved_date,omitempty"`
}

// CaseDetail joins the category and the three actor display names. Left
// joins mean a missing actor never suppresses the case row.
type CaseDetail struct {
	Case
	CategoryName   *string `db:"category_name" json:"category_name,omitempty"`
	ColorCode      *string `db:"color_code" json:"color_code,omitempty"`
	CreatedByName  *string `db:"created_by_name" json:"created_by_name,omitempty"`
	ModifiedByName *string `db:"modified_by_name" json:"modified_by_name,omitempty"`
	SolvedByName   *string `db:"solved_by_name" json:"solved_by_name,omitempty"`
}

// CaseSummary is the list-view projection of a case.
type CaseSummary struct {
	ID               int64   `db:"id" json:"id"`
	CustomerName     string  `db:"customer_name" json:"customer_name"`
	SubscriberNumber string  `db:"subscriber_number" json:"subscriber_number"`
	Address          *string `db:"address" json:"address,omitempty"`
	Status           string  `db:"status" json:"status"`
	CategoryName     *string `db:"category_name" json:"category_name,omitempty"`
	ColorCode        *string `db:"color_code" json:"color_code,omitempty"`
	ModifiedByName   *string `db:"modified_by_name" json:"modified_by_name,omitempty"`
	ReceivedDate     *string `db:"received_date" json:"received_date,omitempty"`
	CreatedDate      *string `db:"created_date" json:"created_date,omitempty"`
	ModifiedDate     *string `db:"modified_date" json:"modified_date,omitempty"`
}

// Search field selectors accepted by the filter engine.
const (
	SearchFieldAll        = "comprehensive"
	SearchFieldCustomer   = "customer-name"
	SearchFieldSubscriber = "subscriber-number"
	SearchFieldAddress    = "address"
	SearchFieldCategory   = "category"
	SearchFieldStatus     = "status"
	SearchFieldEmployee   = "employee-name"
)

// Date-basis selectors for the year filter.
const (
	DateBasisCreated  = "created_date"
	DateBasisReceived = "received_date"
)

// CaseSearchFilter is the structured filter request translated into a
// parameterized query. Zero values mean "no restriction".
type CaseSearchFilter struct {
	Field     string
	Value     string
	Year      string
	DateBasis string
}

// CaseStatistics summarizes the store for the stats panel.
type CaseStatistics struct {
	TotalCases           int `db:"total_cases" json:"total_cases"`
	ActiveCases          int `db:"active_cases" json:"active_cases"`
	SolvedCases          int `db:"solved_cases" json:"solved_cases"`
	TotalCorrespondences int `db:"total_correspondences" json:"total_correspondences"`
	TotalAttachments     int `db:"total_attachments" json:"total_attachments"`
}
