package miner

import (
	"math/big"
	"time"

	"github.com/holiman/uint256"

	"github.com/screa/fixpoint-miner/pkg/types"
)

// DefaultInterval is the time between progress samples
const DefaultInterval = time.Second

// Monitor periodically samples a State until the search ends.
// It only reads the state.
type Monitor struct {
	state    *State
	total    float64
	interval time.Duration
	emit     func(types.ProgressSample)
}

// NewMonitor creates a monitor for a search over total candidates
func NewMonitor(state *State, total *uint256.Int, interval time.Duration, emit func(types.ProgressSample)) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t, _ := new(big.Float).SetInt(total.ToBig()).Float64()
	return &Monitor{
		state:    state,
		total:    t,
		interval: interval,
		emit:     emit,
	}
}

// Run emits one sample per interval until stop is closed or a match is found.
func (m *Monitor) Run(start time.Time, stop <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if m.state.Found() {
				return
			}
			m.emit(Sample(m.state.Ops(), time.Since(start).Seconds(), m.total))
		case <-stop:
			return
		}
	}
}

// Sample derives throughput, completion and ETA from a counter reading.
func Sample(ops uint64, elapsed, total float64) types.ProgressSample {
	s := types.ProgressSample{
		ElapsedSeconds: elapsed,
		Ops:            ops,
	}
	if elapsed > 0 {
		s.Throughput = float64(ops) / elapsed
	}
	if total > 0 {
		s.Percent = float64(ops) / total * 100
	}
	if s.Throughput > 0 {
		s.ETASeconds = (total - float64(ops)) / s.Throughput
	}
	return s
}
