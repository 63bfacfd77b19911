package infra

import (
	"context"
	"sync"

	"casino-gateway/middleware/ratelimit/domain"
)

// slotPool usa um channel bufferizado como semáforo para as rotas /api.
type slotPool struct {
	slots chan struct{}
}

// NewChanPool cria um semáforo com capacidade `max` (mínimo 1).
func NewChanPool(max int) domain.SlotPool {
	if max < 1 {
		max = 1
	}
	return &slotPool{slots: make(chan struct{}, max)}
}

func (p *slotPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.slots <- struct{}{}:
		var once sync.Once
		// release duplicado não pode liberar a vaga de outra requisição.
		return func() { once.Do(func() { <-p.slots }) }, true
	case <-ctx.Done():
		return nil, false
	}
}

func (p *slotPool) InFlight() int { return len(p.slots) }

func (p *slotPool) Capacity() int { return cap(p.slots) }
