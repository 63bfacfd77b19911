package ratelimit

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"casino-gateway/middleware/ratelimit/domain"
)

// UnknownClient é a chave usada quando nenhum header de IP está presente.
const UnknownClient = "unknown"

const rateLimitExceededMessage = "Too many requests. Please try again later."

// KeyFunc extrai o identificador do cliente (normalmente o IP).
type KeyFunc func(r *http.Request) string

// Checker é o caso de uso consumido pelo middleware (application.Service).
type Checker interface {
	Check(ctx context.Context, key domain.Key, cfg domain.Config) domain.Decision
}

// Policy define o que fazer quando o limiter nega.
type Policy int

const (
	// PolicyStrict responde 429 e não chama o próximo handler.
	PolicyStrict Policy = iota
	// PolicyLenient chama o próximo handler mesmo assim; o handler consulta
	// Limited(ctx) e pula o efeito colateral.
	PolicyLenient
)

type Options struct {
	Limiter Checker
	Stats   domain.StatsStore
	Profile domain.Profile
	// Config sobrescreve o perfil quando preenchida.
	Config   domain.Config
	Profiles domain.Profiles
	Policy   Policy
	// ClientFn extrai o IP do cliente; o padrão é DefaultClientFunc("").
	ClientFn            KeyFunc
	PlatformHeader      string
	RejectStatus        int
	AddRateLimitHeaders bool
}

// DefaultClientFunc confia nos headers da borda (proxy/CDN), nesta ordem:
// primeiro IP do X-Forwarded-For, X-Real-IP, header da plataforma.
// Sem nenhum deles retorna "unknown" (RemoteAddr seria o IP do proxy).
func DefaultClientFunc(platformHeader string) KeyFunc {
	if platformHeader == "" {
		platformHeader = "X-Vercel-Forwarded-For"
	}
	return func(r *http.Request) string {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
		if v := r.Header.Get(platformHeader); v != "" {
			first, _, _ := strings.Cut(v, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		return UnknownClient
	}
}

// ClientKey compõe a chave do contador: limites são por cliente e por endpoint.
func ClientKey(clientIP, path string) domain.Key {
	return domain.Key(clientIP + ":" + path)
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.ClientFn == nil {
		opts.ClientFn = DefaultClientFunc(opts.PlatformHeader)
	}
	if opts.Profile == "" {
		opts.Profile = domain.ProfileAPI
	}
	cfg := opts.Config
	if cfg.Validate() != nil {
		profiles := opts.Profiles
		if profiles == nil {
			profiles = domain.DefaultProfiles()
		}
		cfg = profiles.Get(opts.Profile)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := ClientKey(opts.ClientFn(r), r.URL.Path)
			dec := opts.Limiter.Check(r.Context(), key, cfg)

			outcome := domain.OutcomeAllowed
			switch {
			case dec.Success:
			case opts.Policy == PolicyLenient:
				outcome = domain.OutcomeSkipped
			default:
				outcome = domain.OutcomeDenied
			}
			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     key,
					Profile: opts.Profile,
					Outcome: outcome,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}

			if opts.AddRateLimitHeaders {
				setLimitHeaders(w.Header(), dec)
			}

			if outcome == domain.OutcomeDenied {
				writeTooManyRequests(w, dec, opts.RejectStatus)
				return
			}

			next.ServeHTTP(w, r.WithContext(withDecision(r.Context(), dec)))
		})
	}
}

func setLimitHeaders(h http.Header, dec domain.Decision) {
	h.Set("X-RateLimit-Limit", formatInt(dec.Limit))
	h.Set("X-RateLimit-Remaining", formatInt(dec.Remaining))
	h.Set("X-RateLimit-Reset", formatInt(dec.ResetInSeconds()))
}

func writeTooManyRequests(w http.ResponseWriter, dec domain.Decision, status int) {
	setLimitHeaders(w.Header(), dec)
	w.Header().Set("Retry-After", formatInt(dec.ResetInSeconds()))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":      rateLimitExceededMessage,
		"retryAfter": dec.ResetInSeconds(),
	})
}
