package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"casino-gateway/middleware/geo"
	"casino-gateway/middleware/ratelimit"
	"casino-gateway/middleware/ratelimit/application"
	"casino-gateway/middleware/ratelimit/domain"
	"casino-gateway/middleware/ratelimit/infra"

	"go.uber.org/zap"
)

func main() {
	// Exemplo: os dois middlewares direto num http.ServeMux, sem o roteador do gateway.
	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	store := infra.NewMemoryStore(infra.WithCleanupEvery(time.Minute))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	store.StartJanitor(ctx)

	limiter := application.NewService(store, application.WithLogger(logger))

	mux := http.NewServeMux()
	mux.Handle("POST /api/contact", ratelimit.Middleware(ratelimit.Options{
		Limiter:             limiter,
		Profile:             domain.ProfileForm,
		AddRateLimitHeaders: true,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})))
	mux.Handle("/", geo.Middleware(geo.Options{Logger: logger})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, _ := geo.FromContext(r.Context())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("country=" + v.Country + " restricted=" + strconv.FormatBool(v.Restricted) + "\n"))
	})))

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("example server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
