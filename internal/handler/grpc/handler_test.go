package grpc

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/utils"
)

// startServer serves h on an in-memory listener and returns a health client.
func startServer(t *testing.T, h *Handler) healthpb.HealthClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(h.ServerOptions()...)
	h.Register(srv)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func TestNewHandler(t *testing.T) {
	h := NewHandler(nil, nil, logger.Nop())

	require.NotNil(t, h)
	assert.NotNil(t, h.health)
	assert.Len(t, h.ServerOptions(), 1)
}

func TestHealth_Serving(t *testing.T) {
	client := startServer(t, NewHandler(nil, nil, logger.Nop()))

	for _, name := range []string{"", ServiceName} {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: name})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus(), name)
	}
}

func TestHealth_UnknownService(t *testing.T) {
	client := startServer(t, NewHandler(nil, nil, logger.Nop()))

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "billing"})

	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealth_NotServingAfterShutdown(t *testing.T) {
	h := NewHandler(nil, nil, logger.Nop())
	client := startServer(t, h)

	h.Shutdown()

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestUnaryLogging(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(nil, nil, &logger.Logger{Logger: zerolog.New(&buf)})
	client := startServer(t, h)

	buf.Reset()
	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"method":"/grpc.health.v1.Health/Check"`)
	assert.Contains(t, buf.String(), `"code":"OK"`)
}

func TestUnaryLogging_TraceID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "keeps caller id", incoming: "trace-from-gateway", keep: true},
		{name: "generates when missing"},
		{name: "replaces unusable id", incoming: "bad id\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			client := startServer(t, NewHandler(nil, utils.NewTraceIDSource(), &logger.Logger{Logger: zerolog.New(&buf)}))

			ctx := context.Background()
			if tt.incoming != "" {
				ctx = metadata.AppendToOutgoingContext(ctx, TraceIDKey, tt.incoming)
			}

			var header metadata.MD
			_, err := client.Check(ctx, &healthpb.HealthCheckRequest{}, grpc.Header(&header))
			require.NoError(t, err)

			got := header.Get(TraceIDKey)
			require.Len(t, got, 1)
			if tt.keep {
				assert.Equal(t, tt.incoming, got[0])
			} else {
				_, err := uuid.Parse(got[0])
				assert.NoError(t, err)
			}
			assert.Contains(t, buf.String(), `"trace_id":"`+got[0]+`"`)
		})
	}
}
