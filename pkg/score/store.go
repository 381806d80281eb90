// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/AccelByte/extend-flick-countdown/pkg/common"
	"github.com/AccelByte/extend-flick-countdown/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// Store is the single source of truth for participant scores. It keeps
// the mapping in memory and writes every change through its Backend.
//
// Backend writes and listener calls happen outside the store lock but
// in change order. Listeners registered with OnChange must not call
// Increment or Freeze.
type Store struct {
	mu        sync.Mutex
	mapping   Mapping
	seed      Mapping
	backend   Backend
	lockdown  *Lockdown
	listeners []func(Mapping)
	sub       Subscription
	turns     turnstile

	// remote changes that arrive while Load reads the backend
	loading bool
	early   []Mapping
}

// NewStore creates a store over backend. seed names start at zero and
// are always present.
func NewStore(backend Backend, lockdown *Lockdown, seed ...string) *Store {
	if lockdown == nil {
		lockdown = &Lockdown{}
	}
	s := &Store{
		backend:  backend,
		lockdown: lockdown,
		seed:     NewMapping(seed...),
	}
	s.mapping = s.seed.Clone()
	return s
}

// OnChange registers fn to receive the mapping after every change.
func (s *Store) OnChange(fn func(Mapping)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Backend returns the backing policy of the store.
func (s *Store) Backend() Backend {
	return s.backend
}

// Lockdown returns the flag the store honors.
func (s *Store) Lockdown() *Lockdown {
	return s.lockdown
}

// Load subscribes to remote changes and populates the mapping from the
// backend. Read failures are logged and leave the seed mapping in place.
// Changes pushed while the backend is read are applied on top of it.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	sub, err := s.backend.Subscribe(ctx, s.applyRemote)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.early = nil
		s.mu.Unlock()
		metrics.BackendErrorsTotal.WithLabelValues(s.backend.Type(), "subscribe").Inc()
		return fmt.Errorf("failed to subscribe to %s backend: %w", s.backend.Type(), err)
	}

	loaded, err := s.backend.Load(ctx)
	if err != nil {
		logrus.Errorf("failed to load scores from %s backend: %v", s.backend.Type(), err)
		metrics.BackendErrorsTotal.WithLabelValues(s.backend.Type(), "load").Inc()
		loaded = nil
	}

	s.mu.Lock()
	s.sub = sub
	s.mapping = s.withSeed(loaded)
	if !s.lockdown.Engaged() {
		for _, m := range s.early {
			s.mapping = s.mapping.Merge(m)
		}
	}
	s.early = nil
	s.loading = false
	count := len(s.mapping)
	s.handOff(nil)

	logrus.Infof("loaded %d participants from %s backend", count, s.backend.Type())
	return nil
}

// Increment adds one to name's score and returns the new value. It is a
// no-op returning false for names ValidateName rejects and once the
// lockdown is engaged. Backend write failures are logged; the in-memory
// value stays authoritative.
func (s *Store) Increment(ctx context.Context, name string) (int, bool) {
	if err := ValidateName(name); err != nil {
		logrus.Debugf("increment ignored: %v", err)
		return 0, false
	}

	scope := common.NewScope(ctx, "score.increment")
	defer scope.Finish()
	scope.SetAttributes("participant", name)

	s.mu.Lock()
	current, _ := s.mapping.Get(name)
	if s.lockdown.Engaged() {
		s.mu.Unlock()
		metrics.ScoreIncrementsRejectedTotal.Inc()
		scope.Log.Debugf("increment for %s ignored: scores are locked", name)
		return current, false
	}

	next := current + 1
	s.mapping = s.mapping.With(name, next)
	snapshot := s.mapping.Clone()

	s.handOff(func() {
		if err := s.backend.Put(scope.Ctx, name, next, snapshot); err != nil {
			scope.TraceError(err)
			scope.Log.Errorf("failed to write score for %s to %s backend: %v", name, s.backend.Type(), err)
			metrics.BackendErrorsTotal.WithLabelValues(s.backend.Type(), "put").Inc()
		}
	})
	metrics.ScoreIncrementsTotal.WithLabelValues(name).Inc()

	return next, true
}

// Snapshot returns a copy of the current mapping.
func (s *Store) Snapshot() Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapping.Clone()
}

// Freeze engages the lockdown and returns the final mapping. No
// increment can land between the two.
func (s *Store) Freeze() Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lockdown.Engage() {
		logrus.Info("scores locked")
	}
	return s.mapping.Clone()
}

// Close cancels the backend subscription and closes the backend.
func (s *Store) Close() error {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
	return s.backend.Close()
}

// applyRemote merges entries written by other writers. Backends never
// deliver echoes of this store's own writes.
func (s *Store) applyRemote(m Mapping) {
	s.mu.Lock()
	if s.lockdown.Engaged() {
		s.mu.Unlock()
		logrus.Debugf("ignoring remote scores after lockdown")
		return
	}
	if s.loading {
		s.early = append(s.early, m.Clone())
		s.mu.Unlock()
		return
	}
	s.mapping = s.mapping.Merge(m)
	s.handOff(nil)
}

// handOff must be called with s.mu held. It releases s.mu, runs write
// and then notifies listeners with the mapping as of the call. Hand-offs
// run one at a time in the order they were taken.
func (s *Store) handOff(write func()) {
	snapshot := s.mapping.Clone()
	listeners := slices.Clone(s.listeners)
	turn := s.turns.take()
	s.mu.Unlock()

	s.turns.wait(turn)
	defer s.turns.done()

	if write != nil {
		write()
	}
	for _, fn := range listeners {
		fn(snapshot)
	}
}

// withSeed keeps m's order and appends seed names m does not have.
func (s *Store) withSeed(m Mapping) Mapping {
	out := m.Clone()
	for _, e := range s.seed {
		if _, ok := out.Get(e.Name); !ok {
			out = append(out, e)
		}
	}
	return out
}

// turnstile admits holders of a turn one at a time, in the order the
// turns were taken.
type turnstile struct {
	mu      sync.Mutex
	cond    *sync.Cond
	next    uint64
	serving uint64
}

func (t *turnstile) take() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	turn := t.next
	t.next++
	return turn
}

func (t *turnstile) wait(turn uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cond == nil {
		t.cond = sync.NewCond(&t.mu)
	}
	for t.serving != turn {
		t.cond.Wait()
	}
}

func (t *turnstile) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.serving++
	if t.cond != nil {
		t.cond.Broadcast()
	}
}
