package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/netsentry/ipguard/pkg/blacklist"
	"github.com/netsentry/ipguard/pkg/config"
	handlers "github.com/netsentry/ipguard/pkg/handlers/http"
	"github.com/netsentry/ipguard/pkg/infra/httpx"
	infraLogger "github.com/netsentry/ipguard/pkg/infra/logger"
	"github.com/netsentry/ipguard/pkg/providers/factory"
	"github.com/netsentry/ipguard/pkg/server"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger("checker")

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	client := httpx.NewFastHTTPClient(cfg.Providers.Timeout())

	provs, err := factory.Build(cfg.Providers, client, logger)
	if err != nil {
		logger.Fatalf("Failed to build providers: %v", err)
	}

	checker := blacklist.NewChecker(logger, provs)
	verdictCache := blacklist.NewVerdictCache(logger, checker, cfg.Cache.Validity())

	handlerTransport := handlers.HandlerTransport{
		CheckIPHandler:    handlers.NewCheckIPHandler(logger, verdictCache),
		ClearCacheHandler: handlers.NewClearCacheHandler(logger, verdictCache),
	}

	srv := server.NewCheckerServer(server.CheckerServerDI{
		HandlerTransport: handlerTransport,
		Config:           cfg,
		Logger:           logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}
