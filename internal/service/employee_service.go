package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/models"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Employee, error)
	FindByID(ctx context.Context, id int64) (*models.Employee, error)
	FindByPerformanceNumber(ctx context.Context, number int64) (*models.Employee, error)
	ExistsByPerformanceNumber(ctx context.Context, number int64) (bool, error)
	Create(ctx context.Context, emp *models.Employee) (int64, error)
	Deactivate(ctx context.Context, id int64) error
}

// SessionConfig configures the token minted at login.
type SessionConfig struct {
	Secret     string
	Expiration time.Duration
}

// LoginRequest carries the single credential: the performance number.
type LoginRequest struct {
	PerformanceNumber int64 `json:"performance_number" validate:"required,gt=0"`
}

// LoginResponse carries the session token and the resolved employee.
type LoginResponse struct {
	Token    string          `json:"token"`
	Employee models.Employee `json:"employee"`
}

// AddEmployeeRequest holds the payload for registering an employee.
type AddEmployeeRequest struct {
	Name              string `json:"name" validate:"required"`
	Position          string `json:"position"`
	PerformanceNumber int64  `json:"performance_number" validate:"required,gt=0"`
}

// SessionClaims is the token payload.
type SessionClaims struct {
	EmployeeID        int64  `json:"employee_id"`
	Name              string `json:"name"`
	PerformanceNumber int64  `json:"performance_number"`
	jwt.RegisteredClaims
}

// EmployeeService handles the roster and the login gate.
type EmployeeService struct {
	repo      employeeRepository
	session   SessionConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeService constructs the employee service.
func NewEmployeeService(repo employeeRepository, session SessionConfig, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, session: session, validator: validate, logger: logger}
}

// Login resolves the performance number to an employee and mints a session
// token. Regular employees must be active; the administrator number matches
// regardless of the flag, which the repository lookup already honors.
func (s *EmployeeService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "performance number is required")
	}

	emp, err := s.repo.FindByPerformanceNumber(ctx, req.PerformanceNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidLogin, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve login")
	}

	token, err := s.mintToken(emp)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	s.logger.Info("employee logged in", zap.Int64("employee_id", emp.ID))
	return &LoginResponse{Token: token, Employee: *emp}, nil
}

func (s *EmployeeService) mintToken(emp *models.Employee) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		EmployeeID:        emp.ID,
		Name:              emp.Name,
		PerformanceNumber: emp.PerformanceNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", emp.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.session.Expiration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.session.Secret))
}

// ParseToken validates a session token and returns its claims.
func (s *EmployeeService) ParseToken(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.session.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrInvalidLogin, "invalid session token")
	}
	return claims, nil
}

// List returns the roster, excluding the reserved administrator.
func (s *EmployeeService) List(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	list, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return list, nil
}

// Get returns one employee.
func (s *EmployeeService) Get(ctx context.Context, id int64) (*models.Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return emp, nil
}

// Add registers a new employee. The performance number must be positive,
// not the reserved administrator number, and unique across all employees
// including deactivated ones.
func (s *EmployeeService) Add(ctx context.Context, req AddEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	if req.PerformanceNumber == models.AdminPerformanceNumber {
		return nil, appErrors.Clone(appErrors.ErrReservedEmployee, "")
	}

	exists, err := s.repo.ExistsByPerformanceNumber(ctx, req.PerformanceNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate performance number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "performance number already in use")
	}

	now := time.Now().Format(models.TimeLayout)
	emp := &models.Employee{
		Name:              req.Name,
		PerformanceNumber: req.PerformanceNumber,
		CreatedDate:       &now,
		Active:            true,
	}
	if req.Position != "" {
		emp.Position = &req.Position
	}
	if _, err := s.repo.Create(ctx, emp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return emp, nil
}

// Deactivate flips the active flag without removing the row, so cases that
// reference the employee keep resolving their actor names.
func (s *EmployeeService) Deactivate(ctx context.Context, id int64) error {
	emp, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if emp.PerformanceNumber == models.AdminPerformanceNumber {
		return appErrors.Clone(appErrors.ErrReservedEmployee, "the administrator cannot be deactivated")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate employee")
	}
	return nil
}
