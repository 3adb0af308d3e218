package miner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"

	"github.com/screa/fixpoint-miner/internal/config"
	"github.com/screa/fixpoint-miner/internal/crypto"
	"github.com/screa/fixpoint-miner/internal/logger"
	"github.com/screa/fixpoint-miner/pkg/space"
	"github.com/screa/fixpoint-miner/pkg/types"
	"github.com/screa/fixpoint-miner/pkg/worker"
)

// Miner coordinates a parallel search over the candidate space
type Miner struct {
	config       *config.Config
	logger       *logger.Logger
	state        *State
	space        space.Space
	workerConfig *types.WorkerConfig
}

// NewMiner creates a new miner instance. The config must already be validated.
func NewMiner(cfg *config.Config, state *State, log *logger.Logger) *Miner {
	if cfg.Workers <= 0 {
		cfg.Workers = crypto.Parallelism()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = config.DefaultChunkSize
	}
	if state == nil {
		state = NewState()
	}

	return &Miner{
		config:       cfg,
		logger:       log,
		state:        state,
		space:        space.New(cfg.Digits),
		workerConfig: cfg.WorkerConfig(),
	}
}

// State returns the shared state of this search
func (m *Miner) State() *State {
	return m.state
}

// Mine runs the search to completion. onProgress, if non-nil, receives a
// sample every progress interval and is never called after Mine returns.
// A match or an exhausted space is reported with a nil error; cancelling ctx
// returns the partial report along with ctx.Err().
func (m *Miner) Mine(ctx context.Context, onProgress func(types.ProgressSample)) (*types.Report, error) {
	workers := make([]*worker.Worker, m.config.Workers)
	for i := range workers {
		w, err := worker.NewWorker(m.workerConfig, m.state.Counter())
		if err != nil {
			return nil, err
		}
		workers[i] = w
	}

	start := time.Now()
	m.logger.Debugf("Mining started with %d workers, chunk size %d", len(workers), m.workerConfig.ChunkSize)

	// Start progress monitor
	stop := make(chan struct{})
	var monitorWg sync.WaitGroup
	if onProgress != nil {
		monitor := NewMonitor(m.state, m.space.Size(), m.config.Interval, onProgress)
		monitorWg.Add(1)
		go func() {
			defer monitorWg.Done()
			monitor.Run(start, stop)
		}()
	}

	var result atomic.Pointer[types.Match]
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range workers {
		i, w := i, w
		g.Go(func() error {
			return m.worker(gctx, w, i, len(workers), &result)
		})
	}
	err := g.Wait()

	// The monitor must be gone before the caller prints the report
	close(stop)
	monitorWg.Wait()

	report := &types.Report{
		Match:     result.Load(),
		TotalOps:  m.state.Ops(),
		SpaceSize: m.space.Size(),
		Duration:  time.Since(start),
	}
	if report.Match != nil {
		return report, nil
	}
	return report, err
}

// worker walks every len-th chunk starting at chunk id. The found flag and the
// context are only checked between chunks.
func (m *Miner) worker(ctx context.Context, w *worker.Worker, id, n int, result *atomic.Pointer[types.Match]) error {
	chunkSize := m.workerConfig.ChunkSize
	size := m.space.Size()

	cursor := new(uint256.Int).Mul(uint256.NewInt(chunkSize), uint256.NewInt(uint64(id)))
	stride := new(uint256.Int).Mul(uint256.NewInt(chunkSize), uint256.NewInt(uint64(n)))
	remaining := new(uint256.Int)

	for cursor.Lt(size) {
		if m.state.Found() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		count := chunkSize
		remaining.Sub(size, cursor)
		if remaining.IsUint64() && remaining.Uint64() < count {
			count = remaining.Uint64()
		}

		if match := w.ProcessChunk(cursor, count); match != nil {
			// Losers of the race discard their match
			if m.state.SetFound() {
				result.Store(match)
			}
			return nil
		}
		cursor.Add(cursor, stride)
	}
	return nil
}
