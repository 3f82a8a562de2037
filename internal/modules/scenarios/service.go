// Package scenarios implements the scenario comparison view: side-by-side
// metrics for chosen spend levels and the marginal-returns threshold table.
package scenarios

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/irodotos/kpiboard/internal/modules/analysis"
	"github.com/irodotos/kpiboard/internal/snapshot"
)

// DefaultThresholds is the marginal ROAS ladder shown in the threshold table.
var DefaultThresholds = []float64{3.0, 2.5, 2.0, 1.5, 1.0, 0.5}

// spendMatchTolerance is the relative tolerance used to match a requested
// spend level to a concrete scenario row (the spend grid is coarse, so exact
// equality would rarely match).
const spendMatchTolerance = 0.01

// ComparisonEntry is one compared scenario. Matched is false when no filtered
// row lies within tolerance of the requested spend, in which case Row is nil.
type ComparisonEntry struct {
	RequestedSpend float64               `json:"requested_spend"`
	Matched        bool                  `json:"matched"`
	Row            *snapshot.ScenarioRow `json:"row,omitempty"`
}

// ThresholdEntry is the first scenario (ascending spend) whose marginal ROAS
// falls below a threshold.
type ThresholdEntry struct {
	Threshold    float64 `json:"threshold"`
	Spend        float64 `json:"spend"`
	Sales        float64 `json:"sales"`
	ROAS         float64 `json:"roas"`
	MarginalROAS float64 `json:"marginal_roas"`
}

// Service provides scenario comparison operations
type Service struct {
	log zerolog.Logger
}

// NewService creates a new scenarios service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "scenarios").Logger(),
	}
}

// Compare resolves each requested spend level against the filtered view,
// picking the first filtered row whose spend lies within the match tolerance.
// Entries come back in request order, one per requested level.
func (s *Service) Compare(view analysis.View, requestedSpends []float64) []ComparisonEntry {
	entries := make([]ComparisonEntry, 0, len(requestedSpends))
	for _, requested := range requestedSpends {
		entry := ComparisonEntry{RequestedSpend: requested}
		for _, row := range view.Rows {
			if withinTolerance(row.Spend, requested) {
				matched := row.ScenarioRow
				entry.Matched = true
				entry.Row = &matched
				break
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// MarginalThresholds walks the marginal curve (already ascending by spend)
// and reports, per threshold, the first interval whose marginal ROAS is below
// it. Undefined intervals are skipped; thresholds never crossed are omitted.
func (s *Service) MarginalThresholds(view analysis.View, thresholds []float64) []ThresholdEntry {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}

	entries := make([]ThresholdEntry, 0, len(thresholds))
	for _, threshold := range thresholds {
		for _, interval := range view.Marginal {
			if interval.MarginalROAS == nil {
				continue
			}
			if *interval.MarginalROAS < threshold {
				entries = append(entries, ThresholdEntry{
					Threshold:    threshold,
					Spend:        interval.Spend,
					Sales:        interval.Sales,
					ROAS:         interval.ROAS,
					MarginalROAS: *interval.MarginalROAS,
				})
				break
			}
		}
	}
	return entries
}

func withinTolerance(spend, requested float64) bool {
	if spend == requested {
		return true
	}
	return math.Abs(spend-requested) <= spendMatchTolerance*math.Abs(requested)
}
