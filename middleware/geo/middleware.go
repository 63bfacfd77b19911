package geo

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"casino-gateway/middleware/geo/application"
	"casino-gateway/middleware/geo/domain"

	"go.uber.org/zap"
)

const (
	CookieCountry    = "geo_country"
	CookieRegion     = "geo_region"
	CookieRestricted = "geo_restricted"
	CookieMinAge     = "geo_min_age"
	CookieWarning    = "geo_warning"
)

// Resolver é o contrato consumido pelo middleware (application.Resolver).
type Resolver interface {
	Resolve(country, region, city string) domain.Verdict
	IsWarningCountry(country string) bool
}

type Options struct {
	Resolver Resolver

	CountryHeader string
	RegionHeader  string
	CityHeader    string

	// SkipPrefixes não passam pelo interceptor (API, estáticos).
	SkipPrefixes []string
	// GatedPrefixes redirecionam quando o veredito é restrito.
	GatedPrefixes  []string
	RestrictedPath string

	CookieMaxAge time.Duration
	SecureCookie bool

	Logger *zap.Logger
}

func (o *Options) defaults() {
	if o.Resolver == nil {
		o.Resolver = application.NewResolver()
	}
	if o.CountryHeader == "" {
		o.CountryHeader = "X-Vercel-IP-Country"
	}
	if o.RegionHeader == "" {
		o.RegionHeader = "X-Vercel-IP-Country-Region"
	}
	if o.CityHeader == "" {
		o.CityHeader = "X-Vercel-IP-City"
	}
	if o.SkipPrefixes == nil {
		o.SkipPrefixes = []string{"/api/", "/static/", "/favicon.ico"}
	}
	if o.GatedPrefixes == nil {
		o.GatedPrefixes = []string{"/online-casinos", "/casinos/online", "/bonuses"}
	}
	if o.RestrictedPath == "" {
		o.RestrictedPath = "/restricted"
	}
	if o.CookieMaxAge <= 0 {
		o.CookieMaxAge = time.Hour
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	opts.defaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if hasAnyPrefix(path, opts.SkipPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			v := opts.Resolver.Resolve(
				r.Header.Get(opts.CountryHeader),
				r.Header.Get(opts.RegionHeader),
				DecodeCity(r.Header.Get(opts.CityHeader)),
			)
			setVerdictCookies(w, v, opts.Resolver.IsWarningCountry(v.Country), opts)

			if v.Restricted && path != opts.RestrictedPath && isGated(path, opts.GatedPrefixes) {
				q := url.Values{}
				q.Set("reason", v.RestrictionReason)
				q.Set("from", path)
				target := opts.RestrictedPath + "?" + q.Encode()

				opts.Logger.Info("geo redirect",
					zap.String("country", v.Country),
					zap.String("region", v.Region),
					zap.String("from", path),
				)
				http.Redirect(w, r, target, http.StatusTemporaryRedirect)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithVerdict(r.Context(), v)))
		})
	}
}

func setVerdictCookies(w http.ResponseWriter, v domain.Verdict, warning bool, opts Options) {
	maxAge := int(opts.CookieMaxAge / time.Second)
	set := func(name, value string) {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			MaxAge:   maxAge,
			Expires:  time.Now().Add(opts.CookieMaxAge),
			HttpOnly: false,
			Secure:   opts.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
	set(CookieCountry, v.Country)
	set(CookieRegion, v.Region)
	set(CookieRestricted, boolFlag(v.Restricted))
	set(CookieMinAge, strconv.Itoa(v.MinAge))
	set(CookieWarning, boolFlag(warning))
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// DecodeCity desfaz o percent-encoding que algumas bordas aplicam ao nome da cidade.
// Valor malformado volta como veio.
func DecodeCity(raw string) string {
	if raw == "" {
		return ""
	}
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// isGated casa o prefixo como segmento, sem diferenciar maiúsculas:
// /bonuses, /Bonuses e /bonuses/x, mas não /bonuses-guide.
func isGated(path string, prefixes []string) bool {
	path = strings.ToLower(path)
	for _, p := range prefixes {
		p = strings.ToLower(strings.TrimSuffix(p, "/"))
		if p == "" {
			continue
		}
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
