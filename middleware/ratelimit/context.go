package ratelimit

import (
	"context"

	"casino-gateway/middleware/ratelimit/domain"
)

type decisionKey struct{}

func withDecision(ctx context.Context, dec domain.Decision) context.Context {
	return context.WithValue(ctx, decisionKey{}, dec)
}

// FromContext retorna a decisão tomada pelo Middleware para esta requisição.
func FromContext(ctx context.Context) (domain.Decision, bool) {
	dec, ok := ctx.Value(decisionKey{}).(domain.Decision)
	return dec, ok
}

// Limited indica que o limiter negou mas a política leniente deixou passar.
// Handlers de tracking devem pular o efeito colateral quando true.
func Limited(ctx context.Context) bool {
	dec, ok := FromContext(ctx)
	return ok && !dec.Success
}
