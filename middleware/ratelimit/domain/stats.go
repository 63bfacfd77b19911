package domain

import (
	"context"
	"time"
)

// Outcome é o resultado observado de uma decisão, já aplicada a política do endpoint.
type Outcome string

const (
	OutcomeAllowed Outcome = "allowed"
	OutcomeDenied  Outcome = "denied"
	// OutcomeSkipped: negado pelo limiter mas a requisição seguiu sem o efeito colateral
	// (política leniente, ex: tracking de clique).
	OutcomeSkipped Outcome = "skipped"
)

// StatsEvent representa um evento de decisão do rate limit.
//
// Observação: cuidado com cardinalidade (ex.: salvar Key sem controle pode
// explodir o número de chaves no Redis).
type StatsEvent struct {
	Key     Key
	Profile Profile
	Outcome Outcome

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas do rate limit.
//
// O middleware trata erro como best-effort (não derruba request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
