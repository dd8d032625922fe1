package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/netsentry/ipguard/pkg/config"
	handlers "github.com/netsentry/ipguard/pkg/handlers/http"
	"github.com/netsentry/ipguard/pkg/middleware"
)

type (
	CheckerServerDI struct {
		HandlerTransport handlers.HandlerTransport
		Config           *config.Config
		Logger           *logrus.Logger
	}
	CheckerServer struct {
		*BaseServer
		handlerTransport handlers.HandlerTransport
	}
)

func NewCheckerServer(di CheckerServerDI) *CheckerServer {
	return &CheckerServer{
		BaseServer:       NewBaseServer(di.Config, di.Logger),
		handlerTransport: di.HandlerTransport,
	}
}

func (s *CheckerServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.WithField("addr", addr).Info("Starting checker server")
	return s.router.Listen(addr)
}

func (s *CheckerServer) setupRoutes() {
	s.router.Use(recover.New())
	s.router.Use(middleware.NewRequestID())

	v1 := s.router.Group("/api/v1")
	{
		v1.Get("/check/:ip", s.handlerTransport.CheckIPHandler.Handle)
		v1.Delete("/cache", s.handlerTransport.ClearCacheHandler.Handle)
	}
}

func (s *CheckerServer) Shutdown() error {
	return s.router.Shutdown()
}
