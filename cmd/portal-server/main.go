// Command portal-server serves the upload and image-proxy endpoints and
// reports backend health over gRPC.
package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/reflection"

	"github.com/and161185/school-portal/internal/app"
	"github.com/and161185/school-portal/internal/config"
	"github.com/and161185/school-portal/internal/health"
	"github.com/and161185/school-portal/internal/httpserver"
	"github.com/and161185/school-portal/internal/proxy"
	"github.com/and161185/school-portal/internal/upload"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration and runs the HTTP and health servers until a signal arrives.
func main() {
	cfgPath := flag.String("config", "", "config file (yaml)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		// logger is not configured yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger, err := app.NewLogger(cfg.Dev)
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("http", cfg.Server.HTTPAddr),
		zap.String("health", cfg.Server.HealthAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 30 * time.Second}

	opts := httpserver.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Proxy:          proxy.NewHandler(client, cfg.ProxyDomain, logger),
	}
	if cfg.Spaces.Enabled() {
		spaces, err := upload.NewSpaces(upload.SpacesConfig{
			Endpoint:  cfg.Spaces.Endpoint,
			Region:    cfg.Spaces.Region,
			Bucket:    cfg.Spaces.Bucket,
			AccessKey: cfg.Spaces.Key,
			SecretKey: cfg.Spaces.Secret,
			CDN:       cfg.Spaces.CDN,
		})
		if err != nil {
			logger.Fatal("spaces client", zap.Error(err))
		}
		opts.Upload = upload.NewHandler(spaces, logger)
	} else {
		logger.Warn("spaces not configured, uploads disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           httpserver.NewRouter(opts, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Health
	gs, hs := health.NewServer(logger)
	if cfg.Dev {
		reflection.Register(gs)
	}
	prober := health.NewProber(client, cfg.BaseURL, hs, logger)
	go prober.Run(ctx, cfg.Server.ProbeInterval)

	lis, err := net.Listen("tcp", cfg.Server.HealthAddr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
	grpcErr := make(chan error, 1)
	go func() {
		logger.Info("health listening", zap.String("addr", cfg.Server.HealthAddr))
		grpcErr <- gs.Serve(lis)
	}()
	httpErr := make(chan error, 1)
	go func() { httpErr <- httpserver.Serve(ctx, srv, logger) }()

	select {
	case <-ctx.Done():
		if err := <-httpErr; err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
	case err := <-httpErr:
		logger.Error("http server stopped", zap.Error(err))
		stop()
	case err := <-grpcErr:
		logger.Error("health server stopped", zap.Error(err))
		stop()
		<-httpErr
	}

	// graceful shutdown
	hs.Shutdown()
	done := make(chan struct{})
	go func() {
		gs.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		gs.Stop()
	}

	logger.Info("shutdown complete")
}
