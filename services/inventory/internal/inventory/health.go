package inventory

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const HealthServiceName = "inventory"

// HealthService exposes grpc.health.v1 for the inventory service.
type HealthService struct {
	server *health.Server
}

func NewHealthService() *HealthService {
	s := health.NewServer()
	s.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthService{server: s}
}

// RegisterGRPCService is a no-op when the server already carries a health
// service.
func (s *HealthService) RegisterGRPCService(server *grpc.Server) {
	if _, ok := server.GetServiceInfo()[healthpb.Health_ServiceDesc.ServiceName]; ok {
		return
	}
	healthpb.RegisterHealthServer(server, s.server)
}

func (s *HealthService) Start(context.Context) error {
	s.server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.server.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_SERVING)
	return nil
}

func (s *HealthService) Stop(context.Context) error {
	s.server.Shutdown()
	return nil
}

func (s *HealthService) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := s.server.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
