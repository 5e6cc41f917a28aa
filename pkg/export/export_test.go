package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consultationDataset() Dataset {
	return Dataset{
		Title:   "Consultations for 22101234",
		Headers: []string{"id", "course_name", "status"},
		Rows: []map[string]string{
			{"id": "1", "course_name": "CSE110", "status": "pending"},
			{"id": "2", "course_name": "MAT120, sec 3", "status": "approved"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(consultationDataset())
	require.NoError(t, err)
	assert.Equal(t, "id,course_name,status\n1,CSE110,pending\n2,\"MAT120, sec 3\",approved\n", string(out))
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(consultationDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", r.ContentType())

	r, err = ForFormat("")
	require.NoError(t, err)
	assert.Equal(t, "csv", r.Extension())

	_, err = ForFormat("xlsx")
	assert.Error(t, err)
}
