package calendar

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// SessionFactory creates a calendar session for a participant.
type SessionFactory func(participant string) (Provider, error)

// Registry maps participant identity to an established calendar session.
//
// Reads are the common case and take the read lock only. First-time
// initialization goes through singleflight so two requests referencing the
// same participant never race to create duplicate sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Provider
	group    singleflight.Group
	factory  SessionFactory
}

// NewRegistry creates a registry backed by the given session factory.
func NewRegistry(factory SessionFactory) *Registry {
	return &Registry{
		sessions: make(map[string]Provider),
		factory:  factory,
	}
}

// SessionFor returns the session for a participant, creating it once on
// first use. Creation failures are not cached; a later call retries.
func (r *Registry) SessionFor(participant string) (Provider, error) {
	r.mu.RLock()
	session, ok := r.sessions[participant]
	r.mu.RUnlock()
	if ok {
		return session, nil
	}

	v, err, _ := r.group.Do(participant, func() (any, error) {
		// Re-check under the write path: another flight may have finished
		// between the read above and this call.
		r.mu.RLock()
		existing, ok := r.sessions[participant]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}

		created, err := r.factory(participant)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.sessions[participant] = created
		r.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Provider), nil
}

// Len returns the number of established sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
