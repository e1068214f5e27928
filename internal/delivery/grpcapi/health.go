package grpcapi

import (
	"context"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// RatesService is reported SERVING once at least one quote has been cached.
const RatesService = "rates"

type RateHealth struct {
	server *health.Server
}

func NewRateHealth() *RateHealth {
	s := health.NewServer()
	s.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.SetServingStatus(RatesService, healthpb.HealthCheckResponse_NOT_SERVING)
	return &RateHealth{server: s}
}

func (h *RateHealth) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

func (h *RateHealth) OnRateUpdated(_ context.Context, _ domain.RateQuery, _ domain.RateQuote) {
	h.server.SetServingStatus(RatesService, healthpb.HealthCheckResponse_SERVING)
}

// Shutdown flips every service to NOT_SERVING ahead of GracefulStop.
func (h *RateHealth) Shutdown() {
	h.server.Shutdown()
}

func (h *RateHealth) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := h.server.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
