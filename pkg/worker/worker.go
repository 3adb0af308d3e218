package worker

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/holiman/uint256"

	"github.com/screa/fixpoint-miner/internal/crypto"
	"github.com/screa/fixpoint-miner/pkg/space"
	"github.com/screa/fixpoint-miner/pkg/types"
)

// ErrNotFixedPoint is returned by Verify when a match does not hold
var ErrNotFixedPoint = errors.New("digest does not start with candidate")

// Worker evaluates candidates for a single goroutine
type Worker struct {
	config   *types.WorkerConfig
	ops      *atomic.Uint64
	space    space.Space
	binder   *Binder
	digester crypto.Digester

	// Pre-allocated buffers for performance
	candidate []byte
	digest    [crypto.DigestLen]byte
}

// NewWorker creates a new worker instance. ops is the shared operation
// counter; the worker adds to it once per chunk.
func NewWorker(config *types.WorkerConfig, ops *atomic.Uint64) (*Worker, error) {
	d, err := crypto.NewDigester(crypto.Algorithm(config.Algorithm))
	if err != nil {
		return nil, err
	}
	p := config.Params
	return &Worker{
		config:    config,
		ops:       ops,
		space:     space.New(p.Digits),
		binder:    NewBinder(p.Template, p.Placeholder, p.Digits),
		digester:  d,
		candidate: make([]byte, p.Digits),
	}, nil
}

// Evaluate hashes the message bound with candidate and reports whether the
// digest's hex form starts with candidate. It does not touch the counter.
func (w *Worker) Evaluate(candidate []byte) bool {
	w.digester.Sum(&w.digest, w.binder.Bind(candidate))
	return crypto.HasHexPrefix(w.digest[:], candidate)
}

// ProcessChunk evaluates the n consecutive indices starting at start, stopping
// at the first match. The number of evaluated candidates is added to the
// shared counter before returning.
func (w *Worker) ProcessChunk(start *uint256.Int, n uint64) *types.Match {
	w.space.Encode(w.candidate, start)
	for i := uint64(0); i < n; i++ {
		if i > 0 {
			space.Increment(w.candidate)
		}
		if w.Evaluate(w.candidate) {
			w.ops.Add(i + 1)
			return w.match()
		}
	}
	w.ops.Add(n)
	return nil
}

// match copies the current buffers out of the worker
func (w *Worker) match() *types.Match {
	msg := make([]byte, w.binder.Len())
	copy(msg, w.binder.Bind(w.candidate))
	return &types.Match{
		Candidate: string(w.candidate),
		Message:   msg,
		Digest:    w.digest,
	}
}

// Verify recomputes a match with plain substitution and a fresh digester.
func Verify(config *types.WorkerConfig, m *types.Match) error {
	p := config.Params
	msg := Substitute(p.Template, p.Placeholder, m.Candidate)
	if msg != string(m.Message) {
		return fmt.Errorf("message mismatch for candidate %s", m.Candidate)
	}
	sum, err := crypto.Sum(crypto.Algorithm(config.Algorithm), []byte(msg))
	if err != nil {
		return err
	}
	if sum != m.Digest {
		return fmt.Errorf("digest mismatch for candidate %s", m.Candidate)
	}
	if !crypto.HasHexPrefix(sum[:], []byte(m.Candidate)) {
		return fmt.Errorf("%w: %s", ErrNotFixedPoint, m.Candidate)
	}
	return nil
}
