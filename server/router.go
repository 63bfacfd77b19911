package server

import (
	"net/http"
	"time"

	"casino-gateway/middleware/accesslog"
	"casino-gateway/middleware/geo"
	geoapp "casino-gateway/middleware/geo/application"
	"casino-gateway/middleware/ratelimit"
	"casino-gateway/middleware/ratelimit/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Deps struct {
	Sink     Sink
	Limiter  ratelimit.Checker
	Stats    domain.StatsStore
	Profiles domain.Profiles
	// ClientFn extrai o IP do cliente; padrão ratelimit.DefaultClientFunc("").
	ClientFn ratelimit.KeyFunc

	Resolver GeoResolver
	Geo      geo.Options

	Concurrency ratelimit.ConcurrencyOptions

	// Pages atende o tráfego que não é API (ex: reverse proxy para o renderer).
	Pages http.Handler

	Logger *zap.Logger
	Now    func() time.Time
}

// NewRouter monta /api/* com rate limit por perfil e o resto do site atrás do interceptor geo.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Sink == nil {
		d.Sink = NewMemorySink()
	}
	if d.Profiles == nil {
		d.Profiles = domain.DefaultProfiles()
	}
	if d.ClientFn == nil {
		d.ClientFn = ratelimit.DefaultClientFunc("")
	}
	if d.Resolver == nil {
		d.Resolver = geoapp.NewResolver()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Pages == nil {
		d.Pages = http.NotFoundHandler()
	}

	geoOpts := d.Geo
	geoOpts.Resolver = d.Resolver
	if d.Concurrency.Logger == nil {
		d.Concurrency.Logger = d.Logger
	}
	if geoOpts.Logger == nil {
		geoOpts.Logger = d.Logger
	}

	h := &handlers{
		sink:     d.Sink,
		validate: validator.New(),
		resolver: d.Resolver,
		headers: GeoHeaders{
			Country: firstNonEmpty(geoOpts.CountryHeader, "X-Vercel-IP-Country"),
			Region:  firstNonEmpty(geoOpts.RegionHeader, "X-Vercel-IP-Country-Region"),
			City:    firstNonEmpty(geoOpts.CityHeader, "X-Vercel-IP-City"),
		},
		logger: d.Logger,
		now:    d.Now,
	}

	limit := func(p domain.Profile, policy ratelimit.Policy) func(http.Handler) http.Handler {
		return ratelimit.Middleware(ratelimit.Options{
			Limiter:             d.Limiter,
			Stats:               d.Stats,
			Profile:             p,
			Profiles:            d.Profiles,
			Policy:              policy,
			ClientFn:            d.ClientFn,
			AddRateLimitHeaders: true,
		})
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accesslog.Middleware(d.Logger, accesslog.ClientFunc(d.ClientFn)))

	r.Route("/api", func(r chi.Router) {
		r.Use(ratelimit.ConcurrencyMiddleware(d.Concurrency))

		r.With(limit(domain.ProfileForm, ratelimit.PolicyStrict)).Post("/contact", h.contact)
		r.With(limit(domain.ProfileForm, ratelimit.PolicyStrict)).Post("/newsletter", h.newsletter)
		r.With(limit(domain.ProfileReview, ratelimit.PolicyStrict)).Post("/reviews", h.review)
		r.With(limit(domain.ProfileTracking, ratelimit.PolicyLenient)).Post("/track/click", h.trackClick)
		r.With(limit(domain.ProfileAPI, ratelimit.PolicyStrict)).Get("/geo", h.geoInfo)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not found")
		})
	})

	r.Handle("/*", geo.Middleware(geoOpts)(d.Pages))
	return r
}

func firstNonEmpty(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
