package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"casino-gateway/middleware/ratelimit/domain"

	"github.com/joho/godotenv"
)

type config struct {
	listenAddr  string
	upstreamURL string
	logFormat   string

	rateStore        string
	sweepProbability float64
	janitorEvery     time.Duration
	profiles         domain.Profiles
	rateKeyPrefix    string
	platformHeader   string

	redisAddr     string
	redisPassword string
	redisDB       int

	rateStatsEnabled   bool
	rateStatsPrefix    string
	rateStatsTTL       time.Duration
	rateStatsBucket    string
	rateStatsTrackKeys bool

	sink string

	concurrencyMax     int
	concurrencyTimeout time.Duration

	geoCountryHeader  string
	geoRegionHeader   string
	geoCityHeader     string
	geoGatedPrefixes  []string
	geoRestrictedPath string
	secureCookies     bool
}

func (c config) needsRedis() bool {
	return c.rateStore == "redis" || c.rateStatsEnabled || c.sink == "redis"
}

func readConfig() (config, error) {
	// .env é opcional; variáveis já exportadas têm precedência.
	_ = godotenv.Load()

	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.upstreamURL = os.Getenv("UPSTREAM_URL")
	cfg.logFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "json"))

	cfg.rateStore = strings.ToLower(getenvDefault("RATE_STORE", "memory"))
	cfg.rateKeyPrefix = getenvDefault("RATE_KEY_PREFIX", "ratelimit")
	cfg.platformHeader = os.Getenv("RATE_PLATFORM_IP_HEADER")

	profiles, err := readProfiles()
	if err != nil {
		return config{}, err
	}
	cfg.profiles = profiles

	cfg.redisAddr = os.Getenv("REDIS_ADDR")
	cfg.redisPassword = os.Getenv("REDIS_PASSWORD")

	cfg.rateStatsPrefix = getenvDefault("RATE_STATS_PREFIX", "ratelimit:stats")
	cfg.rateStatsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")
	cfg.sink = strings.ToLower(getenvDefault("SINK", "memory"))

	cfg.geoCountryHeader = getenvDefault("GEO_COUNTRY_HEADER", "X-Vercel-IP-Country")
	cfg.geoRegionHeader = getenvDefault("GEO_REGION_HEADER", "X-Vercel-IP-Country-Region")
	cfg.geoCityHeader = getenvDefault("GEO_CITY_HEADER", "X-Vercel-IP-City")
	cfg.geoGatedPrefixes = splitList(getenvDefault("GEO_GATED_PREFIXES", "/online-casinos,/casinos/online,/bonuses"))
	cfg.geoRestrictedPath = getenvDefault("GEO_RESTRICTED_PATH", "/restricted")

	// valores numéricos, booleanos e durações malformados derrubam o startup.
	var errs []error
	parse := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	cfg.sweepProbability, err = getenvFloatStrict("RATE_SWEEP_PROBABILITY", 0.01)
	parse(err)
	cfg.janitorEvery, err = getenvDurationStrict("RATE_JANITOR_EVERY", 0)
	parse(err)
	cfg.redisDB, err = getenvIntStrict("REDIS_DB", 0)
	parse(err)
	cfg.rateStatsEnabled, err = getenvBoolStrict("RATE_STATS_ENABLED", false)
	parse(err)
	cfg.rateStatsTTL, err = getenvDurationStrict("RATE_STATS_TTL", 24*time.Hour)
	parse(err)
	cfg.rateStatsTrackKeys, err = getenvBoolStrict("RATE_STATS_TRACK_KEYS", false)
	parse(err)
	cfg.concurrencyMax, err = getenvIntStrict("CONCURRENCY_MAX", 100)
	parse(err)
	cfg.concurrencyTimeout, err = getenvDurationStrict("CONCURRENCY_TIMEOUT", 0)
	parse(err)
	cfg.secureCookies, err = getenvBoolStrict("SECURE_COOKIES", false)
	parse(err)
	if err := errors.Join(errs...); err != nil {
		return config{}, err
	}

	switch cfg.rateStore {
	case "memory", "redis":
	default:
		return config{}, fmt.Errorf("RATE_STORE must be memory or redis, got %q", cfg.rateStore)
	}
	switch cfg.sink {
	case "memory", "redis":
	default:
		return config{}, fmt.Errorf("SINK must be memory or redis, got %q", cfg.sink)
	}
	if cfg.needsRedis() && strings.TrimSpace(cfg.redisAddr) == "" {
		return config{}, errors.New("REDIS_ADDR is required when RATE_STORE=redis, RATE_STATS_ENABLED=true or SINK=redis")
	}
	if cfg.sweepProbability < 0 || cfg.sweepProbability > 1 {
		return config{}, errors.New("RATE_SWEEP_PROBABILITY must be between 0 and 1")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	if !strings.HasPrefix(cfg.geoRestrictedPath, "/") {
		return config{}, errors.New("GEO_RESTRICTED_PATH must start with /")
	}
	return cfg, nil
}

// readProfiles lê RATE_<PERFIL>_MAX e RATE_<PERFIL>_WINDOW sobre os padrões.
func readProfiles() (domain.Profiles, error) {
	profiles := domain.DefaultProfiles()
	for name, def := range profiles {
		prefix := "RATE_" + strings.ToUpper(string(name))

		maxReq, err := getenvIntStrict(prefix+"_MAX", def.MaxRequests)
		if err != nil {
			return nil, err
		}
		window, err := getenvDurationStrict(prefix+"_WINDOW", def.Window)
		if err != nil {
			return nil, err
		}

		c := domain.Config{Window: window, MaxRequests: maxReq}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", prefix, err)
		}
		profiles[name] = c
	}
	return profiles, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntStrict(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return i, nil
}

func getenvFloatStrict(k string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return f, nil
}

func getenvBoolStrict(k string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", k, err)
	}
	return b, nil
}

func getenvDurationStrict(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return d, nil
}
