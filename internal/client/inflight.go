package client

import (
	"errors"
	"sync"
)

// ErrRequestInFlight is returned when an identical fetch is already
// outstanding; the second call is rejected rather than queued.
var ErrRequestInFlight = errors.New("identical request already in flight")

// inflightSet tracks request signatures of outstanding fetches so rapid
// repeat triggers collapse into one backend call.
type inflightSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflightSet() inflightSet {
	return inflightSet{keys: make(map[string]struct{})}
}

// begin claims a signature, reporting false when it is already claimed.
func (s *inflightSet) begin(sig string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[sig]; ok {
		return false
	}
	s.keys[sig] = struct{}{}
	return true
}

func (s *inflightSet) end(sig string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, sig)
}
