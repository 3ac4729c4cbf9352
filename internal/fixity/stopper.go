package fixity

import "sync/atomic"

// Stopper is a one-shot cooperative stop flag. A signal shim (or a test)
// sets it; the walker reads it only at object boundaries, so an in-flight
// object always finishes before the run exits.
type Stopper struct {
	stopping atomic.Bool
}

// RequestStop marks the run for a graceful stop. Safe to call from a
// signal handler goroutine; calling it more than once is harmless.
func (s *Stopper) RequestStop() {
	s.stopping.Store(true)
}

// Stopping reports whether a stop has been requested. A nil Stopper never
// stops.
func (s *Stopper) Stopping() bool {
	if s == nil {
		return false
	}
	return s.stopping.Load()
}
