// Package analysis implements the filter-and-derive pass that runs once per
// user interaction: it takes the loaded snapshot and the request's filter
// criteria and produces the filtered rows, headline statistics, and the
// marginal ROAS curve. Every derivation is pure - the snapshot is read-only
// shared state and the same criteria always produce the same view.
package analysis

import (
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/irodotos/kpiboard/internal/snapshot"
)

// Service provides filter and derivation operations
type Service struct {
	log zerolog.Logger
}

// NewService creates a new analysis service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "analysis").Logger(),
	}
}

// Apply derives the presentation view for the given criteria over the annual
// projection table. The marginal curve is recomputed from scratch on every
// call, never patched incrementally.
func (s *Service) Apply(snap *snapshot.Snapshot, c Criteria) View {
	type indexedRow struct {
		origIndex int
		row       snapshot.ScenarioRow
	}

	var filtered []indexedRow
	for i, row := range snap.Annual {
		if c.Matches(row) {
			filtered = append(filtered, indexedRow{origIndex: i, row: row})
		}
	}

	view := View{
		Criteria: c,
		Stats: Stats{
			TotalScenarios: len(filtered),
			FilterDelta:    len(filtered) - len(snap.Annual),
		},
	}

	if len(filtered) == 0 {
		s.log.Debug().Msg("Criteria excluded every row, returning empty view")
		return view
	}

	// Headline statistics. OptimalSpend is the spend of the row attaining
	// MaxSales; when several rows tie exactly, the first one in original
	// table order wins. The strict > comparison is what preserves that
	// tie-break - do not change it to >=.
	maxSales := filtered[0].row.Sales
	bestROAS := filtered[0].row.ROAS
	optimalSpend := filtered[0].row.Spend
	for _, item := range filtered[1:] {
		if item.row.Sales > maxSales {
			maxSales = item.row.Sales
			optimalSpend = item.row.Spend
		}
		if item.row.ROAS > bestROAS {
			bestROAS = item.row.ROAS
		}
	}
	view.Stats.MaxSales = &maxSales
	view.Stats.BestROAS = &bestROAS
	view.Stats.OptimalSpend = &optimalSpend

	// Marginal ROAS curve over the filtered rows sorted by ascending spend.
	// Each interval's value is attached to the row that ends it, keyed by the
	// row's original index so the annotation survives the re-sort. Stable sort
	// keeps equal spends in original order.
	bySpend := make([]indexedRow, len(filtered))
	copy(bySpend, filtered)
	sort.SliceStable(bySpend, func(i, j int) bool {
		return bySpend[i].row.Spend < bySpend[j].row.Spend
	})

	marginalByIndex := make(map[int]*float64, len(bySpend))
	view.Marginal = make([]MarginalPoint, 0, len(bySpend))
	for i, item := range bySpend {
		point := MarginalPoint{
			Spend: item.row.Spend,
			Sales: item.row.Sales,
			ROAS:  item.row.ROAS,
		}
		if i > 0 {
			prev := bySpend[i-1].row
			spendDelta := item.row.Spend - prev.Spend
			if spendDelta != 0 {
				marginal := (item.row.Sales - prev.Sales) / spendDelta
				point.MarginalROAS = &marginal
				marginalByIndex[item.origIndex] = &marginal
			}
		}
		view.Marginal = append(view.Marginal, point)
	}

	view.Rows = make([]Row, 0, len(filtered))
	for _, item := range filtered {
		view.Rows = append(view.Rows, Row{
			ScenarioRow:  item.row,
			MarginalROAS: marginalByIndex[item.origIndex],
		})
	}

	return view
}

// FilterTable applies the criteria to an arbitrary projection table, keeping
// original order. Used by the scenario comparison view over the baseline and
// holiday tables.
func (s *Service) FilterTable(table snapshot.ProjectionTable, c Criteria) snapshot.ProjectionTable {
	var filtered snapshot.ProjectionTable
	for _, row := range table {
		if c.Matches(row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// SpendDomain returns the observed [min, max] spend of a table. The loader
// guarantees non-empty tables, but an empty one still answers (0, 0) rather
// than panicking.
func SpendDomain(table snapshot.ProjectionTable) (float64, float64) {
	if len(table) == 0 {
		return 0, 0
	}
	spends := make([]float64, len(table))
	for i, row := range table {
		spends[i] = row.Spend
	}
	return floats.Min(spends), floats.Max(spends)
}
