package analysis

import (
	"encoding/json"
	"math"

	"github.com/irodotos/kpiboard/internal/snapshot"
)

// Criteria is the per-interaction filter input. It has no identity beyond the
// current request and is never persisted. The zero value excludes everything
// (MaxSpend 0), so Open is the canonical "no filtering" value.
type Criteria struct {
	MinSpend      float64  `json:"min_spend"`
	MaxSpend      float64  `json:"max_spend"`
	ROASThreshold float64  `json:"roas_threshold"`
	Scenarios     []string `json:"scenarios,omitempty"`
}

// Open returns criteria that every row passes.
func Open() Criteria {
	return Criteria{MinSpend: 0, MaxSpend: math.Inf(1), ROASThreshold: 0}
}

// Matches reports whether a row satisfies all three predicates: spend bounds,
// ROAS threshold, and scenario membership. An empty scenario selection means
// all scenarios pass.
func (c Criteria) Matches(row snapshot.ScenarioRow) bool {
	if row.Spend < c.MinSpend || row.Spend > c.MaxSpend {
		return false
	}
	if row.ROAS < c.ROASThreshold {
		return false
	}
	if len(c.Scenarios) == 0 {
		return true
	}
	for _, label := range c.Scenarios {
		if row.ScenarioLabel == label {
			return true
		}
	}
	return false
}

// MarshalJSON renders the open upper bound as null: JSON has no
// representation for +Inf and the default encoder errors on it.
func (c Criteria) MarshalJSON() ([]byte, error) {
	type criteriaJSON struct {
		MinSpend      float64  `json:"min_spend"`
		MaxSpend      *float64 `json:"max_spend"`
		ROASThreshold float64  `json:"roas_threshold"`
		Scenarios     []string `json:"scenarios,omitempty"`
	}
	out := criteriaJSON{
		MinSpend:      c.MinSpend,
		ROASThreshold: c.ROASThreshold,
		Scenarios:     c.Scenarios,
	}
	if !math.IsInf(c.MaxSpend, 1) {
		maxSpend := c.MaxSpend
		out.MaxSpend = &maxSpend
	}
	return json.Marshal(out)
}

// Stats are the headline statistics over the filtered set. The optional
// values are nil when the filtered set is empty - the UI renders a visible
// empty state from that, never a zero.
type Stats struct {
	TotalScenarios int      `json:"total_scenarios"`
	FilterDelta    int      `json:"filter_delta"` // filtered minus unfiltered row count, always <= 0
	MaxSales       *float64 `json:"max_sales"`
	BestROAS       *float64 `json:"best_roas"`
	OptimalSpend   *float64 `json:"optimal_spend"`
}

// Row is one displayed/exported record: the scenario fields plus the marginal
// ROAS annotation. MarginalROAS is nil for the lowest-spend row and for
// zero-spend-delta intervals.
type Row struct {
	snapshot.ScenarioRow
	MarginalROAS *float64 `json:"marginal_roas"`
}

// MarginalPoint is one interval of the marginal ROAS curve. Spend and Sales
// belong to the row that ends the interval.
type MarginalPoint struct {
	Spend        float64  `json:"spend"`
	Sales        float64  `json:"sales"`
	ROAS         float64  `json:"roas"`
	MarginalROAS *float64 `json:"marginal_roas"`
}

// View is the complete derivation result for one (snapshot, criteria) pair.
// It is a fresh projection on every Apply call; the snapshot is never touched.
type View struct {
	Criteria Criteria        `json:"criteria"`
	Rows     []Row           `json:"rows"`     // filtered annual rows, original table order
	Stats    Stats           `json:"stats"`
	Marginal []MarginalPoint `json:"marginal"` // filtered annual rows, ascending spend
}

// Empty reports whether no rows survived filtering.
func (v View) Empty() bool {
	return len(v.Rows) == 0
}
