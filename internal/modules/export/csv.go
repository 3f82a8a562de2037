// Package export serializes a filtered view as a flat CSV table. The column
// set and order are a stable contract: the scenario row fields followed by
// the derived marginal ROAS annotation.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/irodotos/kpiboard/internal/modules/analysis"
)

// Header is the exact export header row.
var Header = []string{
	"spend",
	"sales",
	"roas",
	"conversion_rate",
	"average_order_value",
	"traffic",
	"scenario_label",
	"marginal_roas",
}

// WriteCSV writes the view's rows as CSV: header row always included, one
// data row per filtered record in filtered order, floats as plain decimals
// with no thousands separators, marginal_roas blank when undefined. An empty
// view produces a header row and nothing else.
func WriteCSV(w io.Writer, view analysis.View) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, row := range view.Rows {
		marginal := ""
		if row.MarginalROAS != nil {
			marginal = formatFloat(*row.MarginalROAS)
		}
		record := []string{
			formatFloat(row.Spend),
			formatFloat(row.Sales),
			formatFloat(row.ROAS),
			formatFloat(row.ConversionRate),
			formatFloat(row.AverageOrderValue),
			strconv.FormatInt(row.Traffic, 10),
			row.ScenarioLabel,
			marginal,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename builds the download name for an export generated at the given
// time, e.g. kpi_projections_20260115.csv.
func Filename(now time.Time) string {
	return "kpi_projections_" + now.Format("20060102") + ".csv"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
