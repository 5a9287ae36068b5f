package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

func serving(t *testing.T, hs *health.Server) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: Service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestProber_Check(t *testing.T) {
	var code atomic.Int32
	code.Store(http.StatusNotFound)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(code.Load()))
	}))
	defer srv.Close()

	hs := health.NewServer()
	p := NewProber(srv.Client(), srv.URL, hs, zaptest.NewLogger(t))
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, serving(t, hs))

	require.True(t, p.Check(context.Background()))
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, serving(t, hs))

	code.Store(http.StatusBadGateway)
	require.False(t, p.Check(context.Background()))
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, serving(t, hs))
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestProber_TransportError(t *testing.T) {
	hs := health.NewServer()
	p := NewProber(doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: refused")
	}), "http://backend", hs, zaptest.NewLogger(t))
	require.False(t, p.Check(context.Background()))
}

func TestProber_RunStopsOnCancel(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits.Add(1) }))
	defer srv.Close()

	p := NewProber(srv.Client(), srv.URL, health.NewServer(), zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	require.Eventually(t, func() bool { return hits.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestServer_OverTheWire(t *testing.T) {
	s, hs := NewServer(zaptest.NewLogger(t))
	hs.SetServingStatus(Service, healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.Serve(lis) }()
	defer s.Stop()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: Service})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	_, err = healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: "unknown"})
	require.Equal(t, codes.NotFound, status.Code(err))
}

type fakeAddr struct{}

func (fakeAddr) Network() string { return "tcp" }
func (fakeAddr) String() string  { return "127.0.0.1:12345" }

func TestLoggingUnary_Passthrough(t *testing.T) {
	ic := LoggingUnary(zaptest.NewLogger(t))
	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: fakeAddr{}})
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	resp, err := ic(ctx, "req", info, func(context.Context, any) (any, error) { return "ok", nil })
	require.NoError(t, err)
	require.Equal(t, "ok", resp)

	want := errors.New("boom")
	_, err = ic(ctx, "req", info, func(context.Context, any) (any, error) { return nil, want })
	require.ErrorIs(t, err, want)
}

func TestRecoverUnary(t *testing.T) {
	ic := RecoverUnary(zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	_, err := ic(context.Background(), "req", info, func(context.Context, any) (any, error) { panic("oh no") })
	require.Equal(t, codes.Internal, status.Code(err))

	resp, err := ic(context.Background(), "req", info, func(context.Context, any) (any, error) { return 1, nil })
	require.NoError(t, err)
	require.Equal(t, 1, resp)
}
