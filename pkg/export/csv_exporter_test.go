package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Collection Report",
		Period:  "2026-07",
		Headers: []string{"Zone", "Billed", "Collected"},
		Rows: []map[string]string{
			{"Zone": "zone-1", "Billed": "370.00", "Collected": "370.00"},
			{"Zone": "zone-2", "Billed": "480.00", "Collected": "0.00"},
		},
		Totals: map[string]string{"Zone": "TOTAL", "Billed": "850.00", "Collected": "370.00"},
	}
}

func TestCSVRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	want := "Zone,Billed,Collected\n" +
		"zone-1,370.00,370.00\n" +
		"zone-2,480.00,0.00\n" +
		"TOTAL,850.00,370.00\n"
	assert.Equal(t, want, string(out))
}

func TestCSVRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestCSVOmitsTotalsRowWhenAbsent(t *testing.T) {
	data := sampleDataset()
	data.Totals = nil

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Zone,Billed,Collected\nzone-1,370.00,370.00\nzone-2,480.00,0.00\n", string(out))
}

func TestPDFRenderProducesDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Equal(t, "%PDF", string(out[:4]))
}
