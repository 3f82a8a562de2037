package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/irodotos/kpiboard/internal/snapshot"
)

// SystemHandlers handles system monitoring endpoints
type SystemHandlers struct {
	log          zerolog.Logger
	snapshotPath string
	snap         *snapshot.Snapshot
	startupTime  time.Time
}

// NewSystemHandlers creates new system handlers
func NewSystemHandlers(log zerolog.Logger, snapshotPath string, snap *snapshot.Snapshot) *SystemHandlers {
	return &SystemHandlers{
		log:          log.With().Str("handler", "system").Logger(),
		snapshotPath: snapshotPath,
		snap:         snap,
		startupTime:  time.Now(),
	}
}

// HandleSystemStatus returns process and snapshot status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, memPercent := h.getResourceUsage()

	response := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startupTime).Seconds()),
		"cpu_percent":    cpuPercent,
		"memory_percent": memPercent,
		"snapshot": map[string]interface{}{
			"path":           h.snapshotPath,
			"session_id":     h.snap.SessionID.String(),
			"data_timestamp": h.snap.DataTimestamp.Format(time.RFC3339),
			"annual_rows":    len(h.snap.Annual),
			"baseline_rows":  len(h.snap.Baseline),
			"holiday_rows":   len(h.snap.Holiday),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// getResourceUsage samples CPU and memory usage. Failures degrade to zeros
// rather than failing the status endpoint.
func (h *SystemHandlers) getResourceUsage() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
