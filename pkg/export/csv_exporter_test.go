package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRenderProjectsRowsOntoHeaders(t *testing.T) {
	dataset := Dataset{
		Headers: []string{"Milestone", "Status"},
		Rows: []map[string]string{
			{"Status": "completed", "Milestone": "Foundations"},
			{"Milestone": "Recitation"},
		},
	}

	data, err := NewCSVExporter().Render(dataset)
	require.NoError(t, err)
	assert.Equal(t, "Milestone,Status\nFoundations,completed\nRecitation,\n", string(data))
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	dataset := Dataset{
		Headers: []string{"Milestone", "Status"},
		Rows:    []map[string]string{{"Milestone": "Foundations", "Status": "in_progress"}},
	}

	data, err := NewPDFExporter().Render(dataset, "Progress Report")
	require.NoError(t, err)
	assert.True(t, len(data) > 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}
