package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/status-im/proxy-gatekeeper/app"
	"github.com/status-im/proxy-gatekeeper/metrics"
	"github.com/status-im/proxy-gatekeeper/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	envFile := flag.String("env-file", ".env", "optional dotenv file")
	enableMetrics := flag.Bool("metrics", true, "expose prometheus metrics on /metrics")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("failed to load env file", "path", *envFile, "error", err)
		os.Exit(1)
	}

	if err := run(*addr, *enableMetrics, logger); err != nil {
		logger.Error("gatekeeper stopped", "error", err)
		os.Exit(1)
	}
}

func run(addr string, enableMetrics bool, logger *slog.Logger) error {
	appOpts := []app.Option{app.WithLogger(logger)}
	if enableMetrics {
		appOpts = append(appOpts, app.WithMetrics(metrics.NewPrometheusMetrics()))
	}

	a, err := app.Build(appOpts...)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.New(
		server.WithApp(a),
		server.WithLogger(logger),
		server.WithMetrics(enableMetrics),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Start(ctx)

	httpServer := srv.HTTPServer(addr)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cfg := a.Config()
		logger.Info("starting gatekeeper",
			"addr", addr,
			"keys", len(cfg.Keys),
			"policy", cfg.LbPolicy.String(),
			"metrics", enableMetrics)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
