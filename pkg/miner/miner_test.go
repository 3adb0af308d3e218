package miner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screa/fixpoint-miner/internal/config"
	"github.com/screa/fixpoint-miner/internal/crypto"
	"github.com/screa/fixpoint-miner/internal/logger"
	"github.com/screa/fixpoint-miner/pkg/space"
	"github.com/screa/fixpoint-miner/pkg/types"
	"github.com/screa/fixpoint-miner/pkg/worker"
)

func newTestConfig(template string, digits, workers, chunk int) *config.Config {
	cfg := config.NewConfig()
	cfg.Template = template
	cfg.Digits = digits
	cfg.Workers = workers
	cfg.ChunkSize = chunk
	cfg.Interval = 5 * time.Millisecond
	return cfg
}

// fixedPoints brute-forces the space on one goroutine
func fixedPoints(t *testing.T, template string, digits int) map[string]bool {
	t.Helper()
	s := space.New(digits)
	found := make(map[string]bool)
	for i := uint64(0); i < s.Size().Uint64(); i++ {
		c := s.Candidate(uint256.NewInt(i))
		sum, err := crypto.Sum(crypto.SHA256, []byte(worker.Substitute(template, '#', c)))
		require.NoError(t, err)
		if strings.HasPrefix(crypto.HexDigest(sum), c) {
			found[c] = true
		}
	}
	return found
}

func assertValidReport(t *testing.T, cfg *config.Config, report *types.Report) {
	t.Helper()
	size := space.New(cfg.Digits).Size().Uint64()
	require.LessOrEqual(t, report.TotalOps, size)

	if report.Match == nil {
		assert.True(t, report.Exhausted())
		assert.Equal(t, size, report.TotalOps)
		return
	}
	assert.False(t, report.Exhausted())
	assert.Len(t, report.Match.Candidate, cfg.Digits)
	assert.True(t, strings.HasPrefix(crypto.HexDigest(report.Match.Digest), report.Match.Candidate))
	assert.NoError(t, worker.Verify(cfg.WorkerConfig(), report.Match))
}

func TestNewMiner(t *testing.T) {
	cfg := newTestConfig("X#Y", 1, 0, 0)
	miner := NewMiner(cfg, nil, logger.Nop())
	require.NotNil(t, miner)

	assert.Same(t, cfg, miner.config)
	assert.GreaterOrEqual(t, cfg.Workers, 1, "workers default to hardware parallelism")
	assert.Equal(t, config.DefaultChunkSize, cfg.ChunkSize)
	assert.NotNil(t, miner.State())
}

func TestMineSingleDigit(t *testing.T) {
	cfg := newTestConfig("X#Y", 1, 4, 2)
	report, err := NewMiner(cfg, nil, logger.Nop()).Mine(context.Background(), nil)
	require.NoError(t, err)

	require.NotNil(t, report.Match)
	assert.Equal(t, "8", report.Match.Candidate)
	assert.Equal(t, "X8Y", string(report.Match.Message))
	assertValidReport(t, cfg, report)
}

func TestMineExhaustsSpace(t *testing.T) {
	// "#" has no two-digit fixed point under SHA-256
	require.Empty(t, fixedPoints(t, "#", 2))

	for _, chunk := range []int{1, 7, 64, 2048} {
		t.Run(fmt.Sprintf("chunk=%d", chunk), func(t *testing.T) {
			cfg := newTestConfig("#", 2, 3, chunk)
			report, err := NewMiner(cfg, nil, logger.Nop()).Mine(context.Background(), nil)
			require.NoError(t, err)

			assert.Nil(t, report.Match)
			assert.True(t, report.Exhausted())
			assert.Equal(t, uint64(256), report.TotalOps)
			assert.Equal(t, "256", report.SpaceSize.Dec())
		})
	}
}

func TestMineAgreesWithOracle(t *testing.T) {
	tests := []struct {
		template string
		digits   int
	}{
		{"X#Y", 1},
		{"#", 1},
		{"#", 2},
		{"#", 3},
		{"a#b#c", 2},
		{config.DefaultTemplate, 1},
		{config.DefaultTemplate, 2},
		{config.DefaultTemplate, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.template, tt.digits), func(t *testing.T) {
			want := fixedPoints(t, tt.template, tt.digits)

			for _, workers := range []int{1, 2, 8} {
				cfg := newTestConfig(tt.template, tt.digits, workers, 16)
				report, err := NewMiner(cfg, nil, logger.Nop()).Mine(context.Background(), nil)
				require.NoError(t, err)
				assertValidReport(t, cfg, report)

				if len(want) == 0 {
					assert.Nil(t, report.Match)
					continue
				}
				// any fixed point is an acceptable winner
				require.NotNil(t, report.Match)
				assert.True(t, want[report.Match.Candidate], "unexpected candidate %s", report.Match.Candidate)
			}
		})
	}
}

func TestMineStopsWithinOneChunkPerWorker(t *testing.T) {
	// fixed points of "#" at 3 digits are 355 and d83
	const workers, chunk = 4, 8
	for i := 0; i < 20; i++ {
		state := NewState()
		cfg := newTestConfig("#", 3, workers, chunk)
		report, err := NewMiner(cfg, state, logger.Nop()).Mine(context.Background(), nil)
		require.NoError(t, err)
		require.NotNil(t, report.Match)

		// each other worker finishes at most the chunk it was in
		atFound := state.OpsAtFound()
		require.NotZero(t, atFound)
		assert.LessOrEqual(t, report.TotalOps-atFound, uint64((workers-1)*chunk))
	}
}

func TestMineSkipsWorkWhenAlreadyFound(t *testing.T) {
	state := NewState()
	require.True(t, state.SetFound())

	cfg := newTestConfig("#", 3, 4, 16)
	report, err := NewMiner(cfg, state, logger.Nop()).Mine(context.Background(), nil)
	require.NoError(t, err)

	assert.Nil(t, report.Match)
	assert.Zero(t, report.TotalOps)
	assert.False(t, report.Exhausted())
}

func TestMineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 16^16 candidates cannot finish; only the context ends the search
	cfg := newTestConfig("#", 16, 2, 64)
	report, err := NewMiner(cfg, nil, logger.Nop()).Mine(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Nil(t, report.Match)
	assert.False(t, report.Exhausted())
}

func TestMineUnknownAlgorithm(t *testing.T) {
	cfg := newTestConfig("#", 1, 1, 1)
	cfg.Algorithm = "md4"
	_, err := NewMiner(cfg, nil, logger.Nop()).Mine(context.Background(), nil)
	assert.ErrorIs(t, err, crypto.ErrUnknownAlgorithm)
}

func TestMineReportsProgressUntilDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	var (
		mu      sync.Mutex
		samples []types.ProgressSample
	)
	cfg := newTestConfig("#", 12, 2, 256)
	miner := NewMiner(cfg, nil, logger.Nop())
	report, err := miner.Mine(ctx, func(s types.ProgressSample) {
		mu.Lock()
		defer mu.Unlock()
		samples = append(samples, s)
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	got := append([]types.ProgressSample(nil), samples...)
	mu.Unlock()

	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].Ops, got[i-1].Ops, "ops never decrease")
	}
	assert.LessOrEqual(t, got[len(got)-1].Ops, report.TotalOps)

	// no sample may arrive once Mine has returned
	time.Sleep(4 * cfg.Interval)
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, samples, len(got))
}
