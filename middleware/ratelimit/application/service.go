package application

import (
	"context"
	"time"

	"casino-gateway/middleware/ratelimit/domain"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Service concentra a regra de aplicação do rate limit.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
// Check nunca falha: erro no Store vira decisão permissiva (fail open) + log.
type Service struct {
	store  domain.Counter
	logger *zap.Logger
	// denyLog limita o volume de logs de negação sob abuso.
	denyLog *rate.Sometimes
}

type ServiceOption func(*Service)

func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDenyLogInterval define o intervalo mínimo entre logs de negação.
func WithDenyLogInterval(d time.Duration) ServiceOption {
	return func(s *Service) { s.denyLog = &rate.Sometimes{Interval: d} }
}

func NewService(store domain.Counter, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		logger:  zap.NewNop(),
		denyLog: &rate.Sometimes{Interval: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check contabiliza uma requisição para key sob cfg.
func (s *Service) Check(ctx context.Context, key domain.Key, cfg domain.Config) domain.Decision {
	if err := cfg.Validate(); err != nil {
		s.logger.Warn("invalid rate limit config, using api profile",
			zap.String("key", string(key)),
			zap.Duration("window", cfg.Window),
			zap.Int("max_requests", cfg.MaxRequests),
		)
		cfg = domain.DefaultProfiles().Get(domain.ProfileAPI)
	}

	if s.store == nil {
		return allowAll(cfg)
	}

	dec, err := s.store.Take(ctx, key, cfg)
	if err != nil {
		s.logger.Warn("rate limit store failed, allowing request",
			zap.String("key", string(key)),
			zap.Error(err),
		)
		return allowAll(cfg)
	}

	if !dec.Success {
		s.denyLog.Do(func() {
			s.logger.Info("rate limit exceeded",
				zap.String("key", string(key)),
				zap.Int("limit", dec.Limit),
				zap.Int("reset_in_seconds", dec.ResetInSeconds()),
			)
		})
	}
	return dec
}

func allowAll(cfg domain.Config) domain.Decision {
	return domain.Decision{
		Success:   true,
		Remaining: cfg.MaxRequests,
		ResetIn:   cfg.Window,
		Limit:     cfg.MaxRequests,
	}
}
