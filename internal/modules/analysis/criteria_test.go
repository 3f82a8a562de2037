package analysis

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCriteria_Defaults(t *testing.T) {
	c, err := ParseCriteria(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, c.MinSpend)
	assert.True(t, math.IsInf(c.MaxSpend, 1))
	assert.Equal(t, 0.0, c.ROASThreshold)
	assert.Empty(t, c.Scenarios)
}

func TestParseCriteria_AllParameters(t *testing.T) {
	q := url.Values{}
	q.Set("min_spend", "1000000")
	q.Set("max_spend", "5000000")
	q.Set("min_roas", "2.5")
	q.Set("scenarios", "baseline, holiday,,")

	c, err := ParseCriteria(q)
	require.NoError(t, err)

	assert.Equal(t, 1_000_000.0, c.MinSpend)
	assert.Equal(t, 5_000_000.0, c.MaxSpend)
	assert.Equal(t, 2.5, c.ROASThreshold)
	assert.Equal(t, []string{"baseline", "holiday"}, c.Scenarios)
}

func TestParseCriteria_MalformedNumberIsAnError(t *testing.T) {
	for _, param := range []string{"min_spend", "max_spend", "min_roas"} {
		q := url.Values{}
		q.Set(param, "abc")

		_, err := ParseCriteria(q)
		assert.Error(t, err, param)
	}
}

func TestParseCriteria_NonFiniteNumberIsAnError(t *testing.T) {
	// ParseFloat accepts these spellings, but a NaN or infinite criteria
	// value cannot be rendered back into a JSON response.
	for _, param := range []string{"min_spend", "max_spend", "min_roas"} {
		for _, value := range []string{"NaN", "Inf", "+Inf", "-Inf", "inf", "nan"} {
			q := url.Values{}
			q.Set(param, value)

			_, err := ParseCriteria(q)
			assert.Error(t, err, "%s=%s", param, value)
		}
	}
}
