package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/models"
)

type mockExportSource struct {
	summaries  []models.CaseSummary
	lastFilter models.CaseSearchFilter
}

func (m *mockExportSource) Search(ctx context.Context, filter models.CaseSearchFilter) ([]models.CaseSummary, error) {
	m.lastFilter = filter
	return m.summaries, nil
}

type memoryExportStorage struct {
	files map[string][]byte
}

func (m *memoryExportStorage) Save(filename string, data []byte) (string, error) {
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[filename] = data
	return filename, nil
}

func (m *memoryExportStorage) Path(filename string) string {
	return "/reports/" + filename
}

func TestExportServiceGeneratesCSV(t *testing.T) {
	addr := "12 Canal Street"
	source := &mockExportSource{summaries: []models.CaseSummary{
		{ID: 1, CustomerName: "Ali Hassan", SubscriberNumber: "500123", Address: &addr, Status: "new"},
	}}
	storage := &memoryExportStorage{}
	svc := NewExportService(source, storage, nil, nil, zap.NewNop())

	filter := models.CaseSearchFilter{Field: models.SearchFieldStatus, Value: "new"}
	result, err := svc.Generate(context.Background(), filter, "csv")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)
	assert.True(t, strings.HasSuffix(result.FileName, ".csv"))
	assert.Equal(t, filter, source.lastFilter)

	content := string(storage.files[result.FileName])
	assert.Contains(t, content, "Ali Hassan")
	assert.Contains(t, content, "500123")
	assert.Contains(t, content, "12 Canal Street")
}

func TestExportServiceGeneratesPDF(t *testing.T) {
	source := &mockExportSource{summaries: []models.CaseSummary{
		{ID: 1, CustomerName: "Ali Hassan", SubscriberNumber: "500123", Status: "new"},
	}}
	storage := &memoryExportStorage{}
	svc := NewExportService(source, storage, nil, nil, zap.NewNop())

	result, err := svc.Generate(context.Background(), models.CaseSearchFilter{}, "pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.FileName, ".pdf"))
	assert.NotEmpty(t, storage.files[result.FileName])
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockExportSource{}, &memoryExportStorage{}, nil, nil, zap.NewNop())

	_, err := svc.Generate(context.Background(), models.CaseSearchFilter{}, "xlsx")
	require.Error(t, err)
}

func TestExportServiceFilenamesAreUnique(t *testing.T) {
	source := &mockExportSource{}
	storage := &memoryExportStorage{}
	svc := NewExportService(source, storage, nil, nil, zap.NewNop())

	first, err := svc.Generate(context.Background(), models.CaseSearchFilter{}, "csv")
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), models.CaseSearchFilter{}, "csv")
	require.NoError(t, err)
	assert.NotEqual(t, first.FileName, second.FileName)
}
