// Package grpc serves the admin endpoint: the standard gRPC health service,
// reporting SERVING while the database answers pings.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/yatube/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name of the site.
const ServiceName = "yatube"

const defaultCheckInterval = 10 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type AdminServer struct {
	address       string
	logger        logging.Logger
	db            Pinger
	health        *health.Server
	checkInterval time.Duration
}

func NewAdminServer(a string, l logging.Logger, db Pinger) *AdminServer {
	return &AdminServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		db:            db,
		health:        health.NewServer(),
		checkInterval: defaultCheckInterval,
	}
}

func (s *AdminServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve runs the server on lis until ctx is cancelled.
func (s *AdminServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoveryInterceptor, s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.checkDatabase(ctx)
	go s.watchDatabase(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
