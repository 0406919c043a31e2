package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"ID", "Customer", "Status"},
		Rows: []map[string]string{
			{"ID": "1", "Customer": "Ali Hassan", "Status": "new"},
			{"ID": "2", "Customer": "Sara Ahmed", "Status": "solved"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	data, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "ID,Customer,Status\n1,Ali Hassan,new\n2,Sara Ahmed,solved\n", string(data))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data, err := NewPDFExporter().Render(sampleDataset(), "Customer Issues Report")
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "")
	require.Error(t, err)
}
