// Package charts builds chart-ready series from a filtered view. It performs
// no filtering of its own; every series is a projection of the view it is
// given, sorted for line rendering.
package charts

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/irodotos/kpiboard/internal/modules/analysis"
)

// Point represents a single point on a spend-indexed line chart
type Point struct {
	Spend float64 `json:"spend"`
	Value float64 `json:"value"`
}

// ScatterPoint carries the ROAS dimension the frontend maps to color and size
type ScatterPoint struct {
	Spend float64 `json:"spend"`
	Sales float64 `json:"sales"`
	ROAS  float64 `json:"roas"`
}

// OverviewSeries holds the five annual-overview chart series
type OverviewSeries struct {
	SalesVsSpend      []ScatterPoint `json:"sales_vs_spend"`
	ROASCurve         []Point        `json:"roas_curve"`
	ConversionRate    []Point        `json:"conversion_rate"`
	AverageOrderValue []Point        `json:"average_order_value"`
	Traffic           []Point        `json:"traffic"`
}

// Service provides chart series operations
type Service struct {
	log zerolog.Logger
}

// NewService creates a new charts service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "charts").Logger(),
	}
}

// Overview builds the annual-overview series from a filtered view. All series
// are sorted by ascending spend so line charts render left to right; an empty
// view yields empty series.
func (s *Service) Overview(view analysis.View) OverviewSeries {
	rows := make([]analysis.Row, len(view.Rows))
	copy(rows, view.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Spend < rows[j].Spend
	})

	series := OverviewSeries{
		SalesVsSpend:      make([]ScatterPoint, 0, len(rows)),
		ROASCurve:         make([]Point, 0, len(rows)),
		ConversionRate:    make([]Point, 0, len(rows)),
		AverageOrderValue: make([]Point, 0, len(rows)),
		Traffic:           make([]Point, 0, len(rows)),
	}

	for _, row := range rows {
		series.SalesVsSpend = append(series.SalesVsSpend, ScatterPoint{
			Spend: row.Spend,
			Sales: row.Sales,
			ROAS:  row.ROAS,
		})
		series.ROASCurve = append(series.ROASCurve, Point{Spend: row.Spend, Value: row.ROAS})
		series.ConversionRate = append(series.ConversionRate, Point{Spend: row.Spend, Value: row.ConversionRate})
		series.AverageOrderValue = append(series.AverageOrderValue, Point{Spend: row.Spend, Value: row.AverageOrderValue})
		series.Traffic = append(series.Traffic, Point{Spend: row.Spend, Value: float64(row.Traffic)})
	}

	return series
}

// MarginalCurve builds the marginal ROAS line series. Undefined intervals
// (the lowest-spend row and zero-spend-delta pairs) are omitted rather than
// plotted as zero.
func (s *Service) MarginalCurve(view analysis.View) []Point {
	points := make([]Point, 0, len(view.Marginal))
	for _, interval := range view.Marginal {
		if interval.MarginalROAS == nil {
			continue
		}
		points = append(points, Point{Spend: interval.Spend, Value: *interval.MarginalROAS})
	}
	return points
}
