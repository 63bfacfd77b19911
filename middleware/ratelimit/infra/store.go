package infra

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"casino-gateway/middleware/ratelimit/domain"
)

// MemoryStore é um contador de janela fixa por chave, em memória, para uma única instância.
//
// A limpeza é oportunista: a cada Take, com probabilidade sweepProbability,
// a tabela inteira é varrida e entradas vencidas são removidas.
// Opcionalmente StartJanitor faz a mesma varredura em intervalo fixo.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[domain.Key]*domain.Entry

	now              func() time.Time
	chance           func() float64
	sweepProbability float64
	cleanupEvery     time.Duration
}

type StoreOption func(*MemoryStore)

// WithClock troca a fonte de tempo (testes).
func WithClock(now func() time.Time) StoreOption {
	return func(s *MemoryStore) { s.now = now }
}

func WithSweepProbability(p float64) StoreOption {
	return func(s *MemoryStore) {
		switch {
		case p < 0:
			p = 0
		case p > 1:
			p = 1
		}
		s.sweepProbability = p
	}
}

// WithChance troca o sorteio da varredura; deve retornar valores em [0, 1).
func WithChance(fn func() float64) StoreOption {
	return func(s *MemoryStore) { s.chance = fn }
}

func WithCleanupEvery(d time.Duration) StoreOption {
	return func(s *MemoryStore) { s.cleanupEvery = d }
}

func NewMemoryStore(opts ...StoreOption) *MemoryStore {
	s := &MemoryStore{
		entries:          make(map[domain.Key]*domain.Entry),
		now:              time.Now,
		chance:           rand.Float64,
		sweepProbability: 0.01,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) CleanupEvery() time.Duration { return s.cleanupEvery }

// Take implementa domain.Counter. Nunca retorna erro.
func (s *MemoryStore) Take(_ context.Context, key domain.Key, cfg domain.Config) (domain.Decision, error) {
	return s.take(key, cfg), nil
}

func (s *MemoryStore) take(key domain.Key, cfg domain.Config) domain.Decision {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sweepProbability > 0 && s.chance() < s.sweepProbability {
		s.sweepLocked(now)
	}

	ent, ok := s.entries[key]
	if !ok || ent.Expired(now) {
		ent = &domain.Entry{Count: 1, ResetTime: now.Add(cfg.Window)}
		s.entries[key] = ent
		return domain.Decision{
			Success:   true,
			Remaining: cfg.MaxRequests - 1,
			ResetIn:   cfg.Window,
			Limit:     cfg.MaxRequests,
		}
	}

	if ent.Count >= cfg.MaxRequests {
		return domain.Decision{
			Success:   false,
			Remaining: 0,
			ResetIn:   ent.ResetTime.Sub(now),
			Limit:     cfg.MaxRequests,
		}
	}

	ent.Count++
	return domain.Decision{
		Success:   true,
		Remaining: cfg.MaxRequests - ent.Count,
		ResetIn:   ent.ResetTime.Sub(now),
		Limit:     cfg.MaxRequests,
	}
}

// Len retorna o número de entradas vivas ou não varridas.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cleanup remove todas as entradas cuja janela já terminou.
func (s *MemoryStore) Cleanup() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for k, ent := range s.entries {
		if ent.Expired(now) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que varre entradas vencidas periodicamente.
// Pare cancelando o contexto.
func (s *MemoryStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
