package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irodotos/kpiboard/internal/modules/analysis"
	"github.com/irodotos/kpiboard/internal/snapshot"
)

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	marginal := 8.0
	view := analysis.View{
		Rows: []analysis.Row{
			{
				ScenarioRow: snapshot.ScenarioRow{
					Spend:             100,
					Sales:             1000,
					ROAS:              10,
					ConversionRate:    0.025,
					AverageOrderValue: 85.5,
					Traffic:           120000,
					ScenarioLabel:     "baseline",
				},
			},
			{
				ScenarioRow: snapshot.ScenarioRow{
					Spend:             200,
					Sales:             1800,
					ROAS:              9,
					ConversionRate:    0.024,
					AverageOrderValue: 85.5,
					Traffic:           190000,
					ScenarioLabel:     "baseline",
				},
				MarginalROAS: &marginal,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, view))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{"100", "1000", "10", "0.025", "85.5", "120000", "baseline", ""}, records[1])
	assert.Equal(t, []string{"200", "1800", "9", "0.024", "85.5", "190000", "baseline", "8"}, records[2])
}

func TestWriteCSV_EmptyViewIsHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, analysis.View{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Header, records[0])
}

func TestWriteCSV_NoThousandsSeparators(t *testing.T) {
	view := analysis.View{
		Rows: []analysis.Row{
			{
				ScenarioRow: snapshot.ScenarioRow{
					Spend:         137_200_000,
					Sales:         412_350_000.75,
					ROAS:          3.005,
					Traffic:       98_000_000,
					ScenarioLabel: "baseline",
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, view))

	assert.Contains(t, buf.String(), "137200000,412350000.75,3.005")
	assert.NotContains(t, buf.String(), "1.372e")
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 1, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "kpi_projections_20260115.csv", Filename(now))
}
