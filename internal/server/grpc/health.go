package grpc

import (
	"context"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func (s *AdminServer) watchDatabase(ctx context.Context) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkDatabase(ctx)
		}
	}
}

// checkDatabase pings the database and publishes the result for the
// server as a whole and for ServiceName.
func (s *AdminServer) checkDatabase(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.checkInterval)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := s.db.PingContext(pingCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn(ctx, "database ping failed", "error", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}
