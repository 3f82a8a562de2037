package analysis

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ParseCriteria builds filter criteria from request query parameters. Absent
// parameters leave the open defaults in place (no spend bounds, zero ROAS
// threshold, all scenarios); malformed numerics are an error so a typo never
// silently widens or narrows the filter.
//
// Recognized parameters: min_spend, max_spend, min_roas, scenarios
// (comma-separated labels).
func ParseCriteria(query url.Values) (Criteria, error) {
	c := Open()

	if v := query.Get("min_spend"); v != "" {
		f, err := parseFinite(v)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid min_spend %q", v)
		}
		c.MinSpend = f
	}

	if v := query.Get("max_spend"); v != "" {
		f, err := parseFinite(v)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid max_spend %q", v)
		}
		c.MaxSpend = f
	}

	if v := query.Get("min_roas"); v != "" {
		f, err := parseFinite(v)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid min_roas %q", v)
		}
		c.ROASThreshold = f
	}

	if v := query.Get("scenarios"); v != "" {
		for _, label := range strings.Split(v, ",") {
			label = strings.TrimSpace(label)
			if label != "" {
				c.Scenarios = append(c.Scenarios, label)
			}
		}
	}

	return c, nil
}

// parseFinite parses a float and rejects NaN and infinities. ParseFloat
// accepts spellings like "NaN" and "Inf", and a non-finite criteria value
// would be echoed into the JSON response where the encoder rejects it.
func parseFinite(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %q is not finite", v)
	}
	return f, nil
}
