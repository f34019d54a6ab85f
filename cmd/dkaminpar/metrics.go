package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// runMetrics collects per-level statistics for a single partitioning
// run, mirroring the coarsening/refinement hierarchy the run walks
// through: one entry per contraction level plus the final block sizes.
type runMetrics struct {
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	Processes  int           `json:"processes"`
	Blocks     int           `json:"blocks"`
	Levels     []levelMetric `json:"levels"`
	BlockSizes []int64       `json:"block_sizes"`
}

type levelMetric struct {
	Level    int    `json:"level"`
	GlobalN  uint64 `json:"global_n"`
	GlobalM  uint64 `json:"global_m"`
}

func newRunMetrics(processes, blocks int) *runMetrics {
	return &runMetrics{StartedAt: time.Now(), Processes: processes, Blocks: blocks}
}

func (m *runMetrics) addLevel(globalN, globalM uint64) {
	m.Levels = append(m.Levels, levelMetric{Level: len(m.Levels), GlobalN: globalN, GlobalM: globalM})
}

func (m *runMetrics) finish(blockSizes []int64) {
	m.Duration = time.Since(m.StartedAt)
	m.DurationMS = m.Duration.Milliseconds()
	m.BlockSizes = blockSizes
}

func (m *runMetrics) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func (m *runMetrics) printSummary(w io.Writer) {
	fmt.Fprintf(w, "processes=%d blocks=%d duration=%s\n", m.Processes, m.Blocks, m.Duration)
	for _, lv := range m.Levels {
		fmt.Fprintf(w, "  level %d: n=%d m=%d\n", lv.Level, lv.GlobalN, lv.GlobalM)
	}
	fmt.Fprintf(w, "  block sizes: %v\n", m.BlockSizes)
}
