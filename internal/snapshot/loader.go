package snapshot

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Load-time error taxonomy. Both are terminal for the session: the caller
// logs an actionable message and refuses to serve the dashboard. There is no
// retry and no partial load.
var (
	// ErrMissingArtifact means the artifact file does not exist.
	ErrMissingArtifact = errors.New("snapshot artifact not found")
	// ErrCorruptArtifact means the file exists but could not be decoded or
	// does not have the required shape.
	ErrCorruptArtifact = errors.New("snapshot artifact is corrupt")
)

// The artifact is a MessagePack-encoded mapping with exactly these keys.
// No other shape is accepted.
const (
	keyAnnual    = "annual_projections"
	keyBaseline  = "baseline_projections"
	keyHoliday   = "holiday_projections"
	keyMetrics   = "summary_metrics"
	keyTimestamp = "data_timestamp"
)

// requiredColumns are the columns every projection table row must carry.
var requiredColumns = []string{
	"spend",
	"sales",
	"roas",
	"conversion_rate",
	"average_order_value",
	"traffic",
	"scenario_label",
}

// Load reads and validates the projections artifact at path.
//
// Failure modes map onto the two sentinel errors: a missing file wraps
// ErrMissingArtifact, everything else (unreadable file, decode failure,
// unexpected keys, missing columns, empty tables) wraps ErrCorruptArtifact.
// Use errors.Is to distinguish them.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCorruptArtifact, path, err)
	}

	var raw map[string]msgpack.RawMessage
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrCorruptArtifact, path, err)
	}

	// The artifact contract is exactly five named values. Reject missing and
	// unknown keys alike so a schema drift upstream surfaces here rather than
	// as silently empty views.
	expected := map[string]bool{
		keyAnnual:    true,
		keyBaseline:  true,
		keyHoliday:   true,
		keyMetrics:   true,
		keyTimestamp: true,
	}
	for key := range expected {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrCorruptArtifact, key)
		}
	}
	for key := range raw {
		if !expected[key] {
			return nil, fmt.Errorf("%w: unexpected key %q", ErrCorruptArtifact, key)
		}
	}

	annual, err := decodeTable(keyAnnual, raw[keyAnnual])
	if err != nil {
		return nil, err
	}
	baseline, err := decodeTable(keyBaseline, raw[keyBaseline])
	if err != nil {
		return nil, err
	}
	holiday, err := decodeTable(keyHoliday, raw[keyHoliday])
	if err != nil {
		return nil, err
	}

	metrics, err := decodeMetrics(raw[keyMetrics])
	if err != nil {
		return nil, err
	}

	timestamp, err := decodeTimestamp(raw[keyTimestamp])
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		SessionID:      uuid.New(),
		Annual:         annual,
		Baseline:       baseline,
		Holiday:        holiday,
		SummaryMetrics: metrics,
		DataTimestamp:  timestamp,
	}, nil
}

// decodeTable decodes one named projection table, validating that it is
// non-empty and that every row carries all required columns.
func decodeTable(name string, raw msgpack.RawMessage) (ProjectionTable, error) {
	var rows []map[string]interface{}
	if err := msgpack.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: table %q: %v", ErrCorruptArtifact, name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table %q is empty", ErrCorruptArtifact, name)
	}

	table := make(ProjectionTable, 0, len(rows))
	for i, row := range rows {
		for _, col := range requiredColumns {
			if _, ok := row[col]; !ok {
				return nil, fmt.Errorf("%w: table %q row %d: missing column %q", ErrCorruptArtifact, name, i, col)
			}
		}

		var parsed ScenarioRow
		var convErr error
		get := func(col string) float64 {
			v, err := toFloat(row[col])
			if err != nil && convErr == nil {
				convErr = fmt.Errorf("%w: table %q row %d: column %q: %v", ErrCorruptArtifact, name, i, col, err)
			}
			return v
		}
		parsed.Spend = get("spend")
		parsed.Sales = get("sales")
		parsed.ROAS = get("roas")
		parsed.ConversionRate = get("conversion_rate")
		parsed.AverageOrderValue = get("average_order_value")
		parsed.Traffic = int64(get("traffic"))
		if convErr != nil {
			return nil, convErr
		}

		label, ok := row["scenario_label"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: table %q row %d: column \"scenario_label\" is not a string", ErrCorruptArtifact, name, i)
		}
		parsed.ScenarioLabel = label

		table = append(table, parsed)
	}

	return table, nil
}

// decodeMetrics decodes the summary_metrics mapping. The values are computed
// upstream and passed through untouched; only their scalar-ness is checked.
func decodeMetrics(raw msgpack.RawMessage) (map[string]float64, error) {
	var values map[string]interface{}
	if err := msgpack.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%w: summary_metrics: %v", ErrCorruptArtifact, err)
	}

	metrics := make(map[string]float64, len(values))
	for key, value := range values {
		f, err := toFloat(value)
		if err != nil {
			return nil, fmt.Errorf("%w: summary_metrics %q: %v", ErrCorruptArtifact, key, err)
		}
		metrics[key] = f
	}
	return metrics, nil
}

// decodeTimestamp accepts the three encodings the pipeline has produced over
// time: a msgpack time extension, an RFC3339 string, or unix seconds.
func decodeTimestamp(raw msgpack.RawMessage) (time.Time, error) {
	var asTime time.Time
	if err := msgpack.Unmarshal(raw, &asTime); err == nil {
		return asTime, nil
	}

	var asAny interface{}
	if err := msgpack.Unmarshal(raw, &asAny); err != nil {
		return time.Time{}, fmt.Errorf("%w: data_timestamp: %v", ErrCorruptArtifact, err)
	}

	switch v := asAny.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: data_timestamp %q: %v", ErrCorruptArtifact, v, err)
		}
		return parsed, nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case uint64:
		return time.Unix(int64(v), 0).UTC(), nil
	case float64:
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("%w: data_timestamp has unsupported type %T", ErrCorruptArtifact, v)
	}
}

// toFloat coerces the numeric types the msgpack decoder produces. Integers
// and floats are both accepted since the pipeline does not distinguish them.
func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", value, value)
	}
}
