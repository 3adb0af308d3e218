package types

import (
	"time"

	"github.com/holiman/uint256"
)

// Verbosity selects how much progress output the CLI renders
type Verbosity int

const (
	Silent Verbosity = iota
	Compact
	Detailed
)

// String returns the flag-style name of the verbosity level
func (v Verbosity) String() string {
	switch v {
	case Silent:
		return "silent"
	case Compact:
		return "compact"
	case Detailed:
		return "detailed"
	}
	return "unknown"
}

// SearchParameters describes one validated search. Immutable for the run.
type SearchParameters struct {
	Digits      int
	Template    string
	Placeholder byte
}

// WorkerConfig contains configuration shared read-only by all workers
type WorkerConfig struct {
	Params    SearchParameters
	Algorithm string
	ChunkSize uint64
}

// Match is a self-referential message: the hex digest of Message starts with Candidate.
type Match struct {
	Candidate string
	Message   []byte
	Digest    [32]byte
}

// Report is the single terminal outcome of a search
type Report struct {
	Match     *Match // nil unless a fixed point was found
	TotalOps  uint64
	SpaceSize *uint256.Int
	Duration  time.Duration
}

// Exhausted reports whether every candidate was evaluated without a match.
// TotalOps is a uint64, so it is always false for 16 or more digits, whose
// space does not fit in 64 bits.
func (r *Report) Exhausted() bool {
	if r.Match != nil || r.SpaceSize == nil {
		return false
	}
	return r.SpaceSize.IsUint64() && r.SpaceSize.Uint64() == r.TotalOps
}

// Rate returns the average number of hashes per second over the run
func (r *Report) Rate() float64 {
	if r.Duration.Seconds() <= 0 {
		return 0
	}
	return float64(r.TotalOps) / r.Duration.Seconds()
}

// ProgressSample is one observation taken by the progress monitor.
// ETASeconds is zero while the throughput is still unknown.
type ProgressSample struct {
	ElapsedSeconds float64
	Ops            uint64
	Throughput     float64
	Percent        float64
	ETASeconds     float64
}
