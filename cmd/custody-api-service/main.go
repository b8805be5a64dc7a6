package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/btcpeg/custody-api-service/cmd/custody-api-service/cli"
	"github.com/btcpeg/custody-api-service/internal/api"
	"github.com/btcpeg/custody-api-service/internal/clients"
	"github.com/btcpeg/custody-api-service/internal/config"
	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/observability/healthcheck"
	"github.com/btcpeg/custody-api-service/internal/observability/metrics"
	"github.com/btcpeg/custody-api-service/internal/queue"
	"github.com/btcpeg/custody-api-service/internal/services"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx := context.Background()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	if !cfg.Db.InMemory {
		err = model.Setup(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("error while setting up custody db model")
		}
	}

	clients := clients.New(cfg)

	publisher, err := queue.New(&cfg.Queue)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up event publisher")
	}

	services, err := services.New(ctx, cfg, clients, publisher)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up custody services layer")
	}

	if err := healthcheck.StartHealthCheckCron(ctx, services.DbClient, cfg.Server.HealthCheckInterval); err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	apiServer, err := api.New(ctx, cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up custody api service")
	}
	if err = apiServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("error while starting custody api service")
	}
}
