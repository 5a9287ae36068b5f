// Package health reports, over the standard gRPC health protocol, whether the
// school backend is reachable from this host.
package health

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the health service name for the backend dependency.
const Service = "school-portal.backend"

// Doer sends the probe request.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Prober polls the backend base URL and mirrors the result into a health server.
type Prober struct {
	client Doer
	url    string
	hs     *health.Server
	log    *zap.Logger
}

// NewProber starts in NOT_SERVING until the first successful probe.
func NewProber(client Doer, baseURL string, hs *health.Server, log *zap.Logger) *Prober {
	hs.SetServingStatus(Service, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Prober{client: client, url: baseURL, hs: hs, log: log}
}

// Check probes once. Any HTTP answer below 500 means the backend is up;
// an unauthenticated 401/404 still proves reachability.
func (p *Prober) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	up := false
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err == nil {
		resp, derr := p.client.Do(req)
		if derr == nil {
			resp.Body.Close()
			up = resp.StatusCode < http.StatusInternalServerError
		} else {
			err = derr
		}
	}

	st := healthpb.HealthCheckResponse_NOT_SERVING
	if up {
		st = healthpb.HealthCheckResponse_SERVING
	} else {
		p.log.Warn("backend probe failed", zap.String("url", p.url), zap.Error(err))
	}
	p.hs.SetServingStatus(Service, st)
	return up
}

// Run probes immediately and then every interval until ctx is done.
func (p *Prober) Run(ctx context.Context, interval time.Duration) {
	p.Check(ctx)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.Check(ctx)
		}
	}
}

// NewServer builds a gRPC server exposing only the health service.
func NewServer(log *zap.Logger) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoverUnary(log),
			LoggingUnary(log),
		),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	return s, hs
}
