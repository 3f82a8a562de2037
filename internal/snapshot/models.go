// Package snapshot loads and holds the precomputed projection tables that the
// dashboard serves. The artifact is produced upstream by the KPI modeling
// pipeline; this package only reads it, validates its shape, and exposes the
// tables as immutable in-memory values for the lifetime of the session.
package snapshot

import (
	"time"

	"github.com/google/uuid"
)

// ScenarioRow is one row of a projection table.
type ScenarioRow struct {
	Spend             float64 `json:"spend"`
	Sales             float64 `json:"sales"`
	ROAS              float64 `json:"roas"`
	ConversionRate    float64 `json:"conversion_rate"`
	AverageOrderValue float64 `json:"average_order_value"`
	Traffic           int64   `json:"traffic"`
	ScenarioLabel     string  `json:"scenario_label"`
}

// ProjectionTable is an ordered collection of scenario rows sharing a schema.
// Row order is the order the upstream pipeline wrote them in and is preserved
// end to end (derived statistics tie-break on it).
type ProjectionTable []ScenarioRow

// Snapshot is the aggregate root: the three projection tables, the upstream
// summary metrics, and the pipeline generation timestamp. It is never mutated
// after Load returns; every derivation works on it by reference.
type Snapshot struct {
	SessionID      uuid.UUID          `json:"session_id"`
	Annual         ProjectionTable    `json:"annual_projections"`
	Baseline       ProjectionTable    `json:"baseline_projections"`
	Holiday        ProjectionTable    `json:"holiday_projections"`
	SummaryMetrics map[string]float64 `json:"summary_metrics"`
	DataTimestamp  time.Time          `json:"data_timestamp"`
}

// ScenarioLabels returns the distinct scenario labels observed across all
// three tables, in first-seen order. Used to populate the scenario selection
// control.
func (s *Snapshot) ScenarioLabels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, table := range []ProjectionTable{s.Annual, s.Baseline, s.Holiday} {
		for _, row := range table {
			if !seen[row.ScenarioLabel] {
				seen[row.ScenarioLabel] = true
				labels = append(labels, row.ScenarioLabel)
			}
		}
	}
	return labels
}
