package http

import (
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/netsentry/ipguard/pkg/blacklist"
	"github.com/netsentry/ipguard/pkg/middleware"
)

type checkIPHandler struct {
	logger *logrus.Logger
	cache  *blacklist.VerdictCache
}

func NewCheckIPHandler(logger *logrus.Logger, cache *blacklist.VerdictCache) Handler {
	return &checkIPHandler{
		logger: logger,
		cache:  cache,
	}
}

func (s *checkIPHandler) Handle(c *fiber.Ctx) error {
	ip := c.Params("ip")
	if net.ParseIP(ip) == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid IP address"})
	}

	s.logger.WithFields(logrus.Fields{
		"ip":                   ip,
		middleware.RequestIDKey: c.Locals(middleware.RequestIDKey),
	}).Info("checking IP against blacklists")

	verdict := s.cache.Lookup(c.Context(), ip)
	return c.Status(fiber.StatusOK).JSON(verdict)
}
