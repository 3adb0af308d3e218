package miner

import "sync/atomic"

// State is the only mutable data shared between workers and the monitor.
// One State belongs to exactly one search.
type State struct {
	found    atomic.Bool
	ops      atomic.Uint64
	foundOps atomic.Uint64
}

// NewState creates an empty search state
func NewState() *State {
	return &State{}
}

// Found reports whether some worker has claimed a match
func (s *State) Found() bool {
	return s.found.Load()
}

// SetFound flips the found flag. Only the first caller gets true; the flag never resets.
func (s *State) SetFound() bool {
	if !s.found.CompareAndSwap(false, true) {
		return false
	}
	s.foundOps.Store(s.ops.Load())
	return true
}

// Ops returns the number of candidates evaluated so far
func (s *State) Ops() uint64 {
	return s.ops.Load()
}

// OpsAtFound returns the counter as observed when the found flag was set,
// or zero if it never was. Ops minus this is the work done after the match.
func (s *State) OpsAtFound() uint64 {
	return s.foundOps.Load()
}

// Counter exposes the operation counter to workers
func (s *State) Counter() *atomic.Uint64 {
	return &s.ops
}
