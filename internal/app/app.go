package app

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/cache"
	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/internal/database"
	"github.com/Additional-Code/purchasehub/internal/logger"
	"github.com/Additional-Code/purchasehub/internal/messaging"
	"github.com/Additional-Code/purchasehub/internal/observability"
	"github.com/Additional-Code/purchasehub/internal/repository"
	grpcserver "github.com/Additional-Code/purchasehub/internal/server/grpc"
	httpserver "github.com/Additional-Code/purchasehub/internal/server/http"
	"github.com/Additional-Code/purchasehub/internal/service"
	transporthttp "github.com/Additional-Code/purchasehub/internal/transport/http"
	"github.com/Additional-Code/purchasehub/internal/validation"
	"github.com/Additional-Code/purchasehub/internal/worker"
	workerevents "github.com/Additional-Code/purchasehub/internal/worker/events"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	validation.Module,
	repository.Module,
	service.Module,
)

// HTTP wires the HTTP transport and the gRPC health endpoint on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
	grpcserver.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerevents.Module,
)

// Module is the API process wiring with Fx events routed through zap.
var Module = fx.Options(HTTP, EventLogger)

// EventLogger logs Fx lifecycle events through the application logger.
var EventLogger = fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: logger.Named("fx")}
})
