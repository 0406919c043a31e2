package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/models"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
)

type storeObserver interface {
	ObserveStoreOperation(operation string, duration time.Duration)
}

type caseRepository interface {
	Create(ctx context.Context, c *models.Case) (int64, error)
	Update(ctx context.Context, c *models.Case) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.CaseDetail, error)
	ListByYear(ctx context.Context, year string) ([]models.CaseSummary, error)
	Search(ctx context.Context, filter models.CaseSearchFilter) ([]models.CaseSummary, error)
	DistinctYears(ctx context.Context) ([]string, error)
	Statistics(ctx context.Context) (*models.CaseStatistics, error)
}

// CaseRequest holds the payload for creating or saving a case. The same
// shape serves both paths; the save path additionally carries the identity.
type CaseRequest struct {
	CustomerName       string   `json:"customer_name" validate:"required"`
	SubscriberNumber   string   `json:"subscriber_number" validate:"required"`
	Phone              *string  `json:"phone"`
	Address            *string  `json:"address"`
	CategoryID         *int64   `json:"category_id"`
	Status             string   `json:"status"`
	ProblemDescription *string  `json:"problem_description"`
	ActionsTaken       *string  `json:"actions_taken"`
	LastMeterReading   *float64 `json:"last_meter_reading"`
	LastReadingDate    *string  `json:"last_reading_date"`
	DebtAmount         *float64 `json:"debt_amount"`
	ReceivedDate       *string  `json:"received_date"`
}

// CaseService handles complaint-case use-cases.
type CaseService struct {
	repo      caseRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   storeObserver
}

// NewCaseService constructs the case service. The metrics observer is
// optional; when nil, store timings are simply not recorded.
func NewCaseService(repo caseRepository, validate *validator.Validate, logger *zap.Logger, metrics storeObserver) *CaseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaseService{repo: repo, validator: validate, logger: logger, metrics: metrics}
}

func (s *CaseService) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStoreOperation(operation, time.Since(start))
	}
}

func validStatus(status string) bool {
	for _, opt := range models.StatusOptions() {
		if opt.Name == status {
			return true
		}
	}
	return false
}

func (s *CaseService) validateRequest(req CaseRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid case payload")
	}
	if req.Status != "" && !validStatus(req.Status) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown case status")
	}
	for _, d := range []*string{req.ReceivedDate, req.LastReadingDate} {
		if d == nil || *d == "" {
			continue
		}
		if _, err := time.Parse(models.TimeLayout, *d); err != nil {
			if _, err := time.Parse(models.DateLayout, *d); err != nil {
				return appErrors.Clone(appErrors.ErrValidation, "malformed date value")
			}
		}
	}
	return nil
}

// Create registers a new case attributed to the acting employee. Status
// defaults to "new" and the debt amount to zero when the caller omits them.
func (s *CaseService) Create(ctx context.Context, req CaseRequest, actorID int64) (*models.CaseDetail, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	now := time.Now().Format(models.TimeLayout)
	status := req.Status
	if status == "" {
		status = models.StatusNew
	}
	debt := float64(0)
	if req.DebtAmount != nil {
		debt = *req.DebtAmount
	}

	c := &models.Case{
		CustomerName:       req.CustomerName,
		SubscriberNumber:   req.SubscriberNumber,
		Phone:              req.Phone,
		Address:            req.Address,
		CategoryID:         req.CategoryID,
		Status:             status,
		ProblemDescription: req.ProblemDescription,
		ActionsTaken:       req.ActionsTaken,
		LastMeterReading:   req.LastMeterReading,
		LastReadingDate:    req.LastReadingDate,
		DebtAmount:         debt,
		ReceivedDate:       req.ReceivedDate,
		CreatedDate:        now,
		CreatedBy:          &actorID,
		ModifiedDate:       &now,
		ModifiedBy:         &actorID,
	}
	if status == models.StatusSolved {
		c.SolvedBy = &actorID
		c.SolvedDate = &now
	}

	start := time.Now()
	id, err := s.repo.Create(ctx, c)
	s.observe("create", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create case")
	}
	return s.Get(ctx, id)
}

// Update saves the full case record. Solved attribution is stamped on the
// transition into the solved status and preserved on every later save; a
// case that leaves and re-enters solved keeps its original solver.
func (s *CaseService) Update(ctx context.Context, id int64, req CaseRequest, actorID int64) (*models.CaseDetail, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().Format(models.TimeLayout)
	status := req.Status
	if status == "" {
		status = current.Status
	}
	debt := current.DebtAmount
	if req.DebtAmount != nil {
		debt = *req.DebtAmount
	}

	c := &models.Case{
		ID:                 id,
		CustomerName:       req.CustomerName,
		SubscriberNumber:   req.SubscriberNumber,
		Phone:              req.Phone,
		Address:            req.Address,
		CategoryID:         req.CategoryID,
		Status:             status,
		ProblemDescription: req.ProblemDescription,
		ActionsTaken:       req.ActionsTaken,
		LastMeterReading:   req.LastMeterReading,
		LastReadingDate:    req.LastReadingDate,
		DebtAmount:         debt,
		ReceivedDate:       req.ReceivedDate,
		ModifiedDate:       &now,
		ModifiedBy:         &actorID,
		SolvedBy:           current.SolvedBy,
		SolvedDate:         current.SolvedDate,
	}
	if status == models.StatusSolved && current.SolvedBy == nil {
		c.SolvedBy = &actorID
		c.SolvedDate = &now
	}

	start := time.Now()
	err = s.repo.Update(ctx, c)
	s.observe("update", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update case")
	}
	return s.Get(ctx, id)
}

// Delete removes the case with all dependent rows. The repository runs the
// cascade transactionally, so a failure here means nothing was removed.
func (s *CaseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	start := time.Now()
	err := s.repo.Delete(ctx, id)
	s.observe("delete", start)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrDeleteIncomplete.Code, appErrors.ErrDeleteIncomplete.Status, "failed to delete case")
	}
	return nil
}

// Get returns the full case detail.
func (s *CaseService) Get(ctx context.Context, id int64) (*models.CaseDetail, error) {
	start := time.Now()
	detail, err := s.repo.FindByID(ctx, id)
	s.observe("get", start)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load case")
	}
	return detail, nil
}

// List returns case summaries for one calendar year, or all of them.
func (s *CaseService) List(ctx context.Context, year string) ([]models.CaseSummary, error) {
	start := time.Now()
	summaries, err := s.repo.ListByYear(ctx, year)
	s.observe("list", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cases")
	}
	return summaries, nil
}

// Search runs the structured filter.
func (s *CaseService) Search(ctx context.Context, filter models.CaseSearchFilter) ([]models.CaseSummary, error) {
	start := time.Now()
	summaries, err := s.repo.Search(ctx, filter)
	s.observe("search", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search cases")
	}
	return summaries, nil
}

// Years lists the distinct calendar years present in the store. The current
// year is always included so the year filter offers it before the first case
// of the year exists.
func (s *CaseService) Years(ctx context.Context) ([]string, error) {
	start := time.Now()
	years, err := s.repo.DistinctYears(ctx)
	s.observe("years", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list years")
	}
	current := strconv.Itoa(time.Now().Year())
	for _, y := range years {
		if y == current {
			return years, nil
		}
	}
	return append([]string{current}, years...), nil
}

// Statistics returns the aggregate counters for the stats panel.
func (s *CaseService) Statistics(ctx context.Context) (*models.CaseStatistics, error) {
	start := time.Now()
	stats, err := s.repo.Statistics(ctx)
	s.observe("statistics", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load statistics")
	}
	return stats, nil
}
