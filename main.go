package main

import (
	"context"
	"expvar"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	// Bundled zone database so the display timezone resolves inside
	// minimal containers without a zoneinfo directory.
	_ "time/tzdata"

	"github.com/AmitKumar2k2/webhook-repo/internal"
	"github.com/AmitKumar2k2/webhook-repo/pkg/api"
	"github.com/AmitKumar2k2/webhook-repo/pkg/storage/events"
	"github.com/AmitKumar2k2/webhook-repo/webhook"
)

func main() {
	logger := internal.NewLogger("server")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	config, err := internal.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	location, err := time.LoadLocation(config.Display.Timezone)
	if err != nil {
		logger.Fatalf("load display timezone: %v", err)
	}

	store, err := events.Open(events.Config{
		Driver: config.Storage.Driver,
		DSN:    config.Storage.DSN,
		Table:  config.Storage.Table,
	})
	if err != nil {
		logger.Fatalf("open event store: %v", err)
	}
	defer store.Close()
	logger.Printf("event store ready: driver=%s table=%s", config.Storage.Driver, config.Storage.Table)

	storageTimeout := time.Duration(config.Storage.TimeoutMS) * time.Millisecond

	ghHandler, err := webhook.NewGitHubHandler(store, storageTimeout, internal.NewLogger("webhook"))
	if err != nil {
		logger.Fatalf("github handler: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/webhook", ghHandler)
	mux.Handle("/api/events", &api.EventsHandler{
		Store:    store,
		Limit:    config.Display.RecentLimit,
		Location: location,
		Timeout:  storageTimeout,
		Logger:   internal.NewLogger("api"),
	})
	mux.Handle("/health", &api.HealthHandler{})
	mux.Handle("/{$}", &api.IndexHandler{})

	if config.Server.MetricsEnabled {
		mux.Handle(config.Server.MetricsPath, expvar.Handler())
		logger.Printf("metrics enabled on %s", config.Server.MetricsPath)
	}

	var root http.Handler = mux
	root = maxBodyHandler(root, config.Server.MaxBodyBytes)
	root = internal.NewRateLimitHandler(root, config.Server.RateLimitRPS, config.Server.RateLimitBurst, time.Minute)

	addr := ":" + strconv.Itoa(config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       time.Duration(config.Server.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout:      time.Duration(config.Server.WriteTimeoutMS) * time.Millisecond,
		IdleTimeout:       time.Duration(config.Server.IdleTimeoutMS) * time.Millisecond,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderMS) * time.Millisecond,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Printf("listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	<-shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
}

func maxBodyHandler(next http.Handler, limit int64) http.Handler {
	if limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
