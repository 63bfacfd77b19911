package infra

import (
	"context"
	"sync"

	"casino-gateway/middleware/ratelimit/domain"
)

type Counters struct {
	Allowed int64
	Denied  int64
	Skipped int64
}

func (c *Counters) add(o domain.Outcome) {
	switch o {
	case domain.OutcomeAllowed:
		c.Allowed++
	case domain.OutcomeDenied:
		c.Denied++
	case domain.OutcomeSkipped:
		c.Skipped++
	}
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração; byKey só é preenchido com WithTrackKeys(true).
type MemoryStatsStore struct {
	mu        sync.Mutex
	total     Counters
	byProfile map[domain.Profile]Counters
	byRoute   map[string]Counters
	byKey     map[string]Counters

	trackKeys bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byProfile: make(map[domain.Profile]Counters),
		byRoute:   make(map[string]Counters),
		byKey:     make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	route := ev.Method + " " + ev.Path

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev.Outcome)
	bump(s.byProfile, ev.Profile, ev.Outcome)
	bump(s.byRoute, route, ev.Outcome)
	if s.trackKeys {
		bump(s.byKey, string(ev.Key), ev.Outcome)
	}
	return nil
}

func bump[K comparable](m map[K]Counters, k K, o domain.Outcome) {
	c := m[k]
	c.add(o)
	m[k] = c
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByProfile() map[domain.Profile]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounters(s.byProfile)
}

func (s *MemoryStatsStore) ByRoute() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounters(s.byRoute)
}

func (s *MemoryStatsStore) ByKey() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounters(s.byKey)
}

func copyCounters[K comparable](src map[K]Counters) map[K]Counters {
	out := make(map[K]Counters, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
