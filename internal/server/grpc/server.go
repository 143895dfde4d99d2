package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/pkg/errorbank"
)

// Module serves the health service next to the HTTP API.
var Module = fx.Module("grpc_server",
	fx.Provide(NewServer, NewHealth),
	fx.Invoke(Register, Run),
)

func NewHealth() *health.Server {
	return health.NewServer()
}

// Register exposes health and reflection and reports the process, and the
// service by name, as serving.
func Register(server *grpc.Server, hs *health.Server, cfg config.Config) {
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)

	for _, svc := range []string{"", cfg.Observability.ServiceName} {
		hs.SetServingStatus(svc, healthpb.HealthCheckResponse_SERVING)
	}
}

// NewServer builds a server whose interceptors log every call and turn
// errorbank errors into statuses.
func NewServer(logger *zap.Logger) *grpc.Server {
	return grpc.NewServer(
		grpc.ChainUnaryInterceptor(unaryInterceptor(logger)),
		grpc.ChainStreamInterceptor(streamInterceptor(logger)),
	)
}

func unaryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		err = toStatus(err)
		logCall(logger, "unary", info.FullMethod, time.Since(start), err)
		return resp, err
	}
}

func streamInterceptor(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := toStatus(handler(srv, ss))
		logCall(logger, "stream", info.FullMethod, time.Since(start), err)
		return err
	}
}

func logCall(logger *zap.Logger, kind, method string, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("kind", kind),
		zap.String("method", method),
		zap.Duration("latency", elapsed),
	}
	if err != nil {
		logger.Warn("grpc call failed", append(fields, zap.String("code", status.Code(err).String()), zap.Error(err))...)
		return
	}
	logger.Debug("grpc call", fields...)
}

func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	appErr := errorbank.From(err)
	return status.Error(appErr.GRPCCode(), appErr.Message())
}

// Run listens on GRPC_HOST:GRPC_PORT. A serve failure shuts the whole app down.
func Run(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg config.Config, server *grpc.Server, hs *health.Server, logger *zap.Logger) {
	addr := net.JoinHostPort(cfg.GRPC.Host, fmt.Sprint(cfg.GRPC.Port))

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen grpc %s: %w", addr, err)
			}
			logger.Info("grpc server listening", zap.String("addr", ln.Addr().String()))

			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
					logger.Error("grpc server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			hs.Shutdown()

			drained := make(chan struct{})
			go func() {
				server.GracefulStop()
				close(drained)
			}()
			select {
			case <-drained:
				logger.Info("grpc server stopped")
				return nil
			case <-ctx.Done():
				server.Stop()
				return ctx.Err()
			}
		},
	})
}
