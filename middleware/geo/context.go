package geo

import (
	"context"

	"casino-gateway/middleware/geo/domain"
)

type verdictKey struct{}

func WithVerdict(ctx context.Context, v domain.Verdict) context.Context {
	return context.WithValue(ctx, verdictKey{}, v)
}

// FromContext retorna o veredito resolvido pelo Middleware, se houver.
func FromContext(ctx context.Context) (domain.Verdict, bool) {
	v, ok := ctx.Value(verdictKey{}).(domain.Verdict)
	return v, ok
}
