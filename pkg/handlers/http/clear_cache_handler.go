package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/netsentry/ipguard/pkg/blacklist"
)

type clearCacheHandler struct {
	logger *logrus.Logger
	cache  *blacklist.VerdictCache
}

func NewClearCacheHandler(logger *logrus.Logger, cache *blacklist.VerdictCache) Handler {
	return &clearCacheHandler{
		logger: logger,
		cache:  cache,
	}
}

func (s *clearCacheHandler) Handle(c *fiber.Ctx) error {
	removed := s.cache.Clear()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"removed": removed})
}
