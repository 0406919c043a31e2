package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/models"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
	"github.com/utiligas/casedesk/pkg/export"
)

type exportCaseSource interface {
	Search(ctx context.Context, filter models.CaseSearchFilter) ([]models.CaseSummary, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// Report formats accepted by the export endpoint.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportResult describes a generated report file.
type ExportResult struct {
	FileName string `json:"file_name"`
	Path     string `json:"path"`
	Format   string `json:"format"`
	Rows     int    `json:"rows"`
}

// ExportService renders the current case listing, as narrowed by a search
// filter, into CSV or PDF report files.
type ExportService struct {
	cases   exportCaseSource
	storage exportStorage
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(cases exportCaseSource, storage exportStorage, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{cases: cases, storage: storage, csv: csv, pdf: pdf, logger: logger}
}

var exportHeaders = []string{
	"ID", "Customer", "Subscriber", "Address", "Category", "Status", "Received", "Created",
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func buildDataset(summaries []models.CaseSummary) export.Dataset {
	rows := make([]map[string]string, 0, len(summaries))
	for _, c := range summaries {
		rows = append(rows, map[string]string{
			"ID":         strconv.FormatInt(c.ID, 10),
			"Customer":   c.CustomerName,
			"Subscriber": c.SubscriberNumber,
			"Address":    deref(c.Address),
			"Category":   deref(c.CategoryName),
			"Status":     c.Status,
			"Received":   deref(c.ReceivedDate),
			"Created":    deref(c.CreatedDate),
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}

// Generate renders the filtered listing into the requested format and
// persists it under the reports directory.
func (s *ExportService) Generate(ctx context.Context, filter models.CaseSearchFilter, format string) (*ExportResult, error) {
	format = strings.ToLower(format)
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}

	summaries, err := s.cases.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	dataset := buildDataset(summaries)

	var rendered []byte
	switch format {
	case FormatCSV:
		rendered, err = s.csv.Render(dataset)
	case FormatPDF:
		rendered, err = s.pdf.Render(dataset, "Customer Issues Report")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := fmt.Sprintf("cases_%s_%s.%s",
		time.Now().Format("20060102_150405"), uuid.NewString()[:8], format)
	if _, err := s.storage.Save(filename, rendered); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	s.logger.Info("report generated",
		zap.String("file", filename), zap.String("format", format), zap.Int("rows", len(dataset.Rows)))
	return &ExportResult{
		FileName: filename,
		Path:     s.storage.Path(filename),
		Format:   format,
		Rows:     len(dataset.Rows),
	}, nil
}
