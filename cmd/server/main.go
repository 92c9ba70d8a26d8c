package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/handler"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/server"
	"github.com/MKhiriev/go-invoicer/internal/service"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/internal/workers"
	"github.com/MKhiriev/go-invoicer/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	log := logger.NewLogger("go-invoicer-server")
	log.Info().Stringer("build", buildInfo).Msg("starting")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "dev" && buildVersion != "" {
		cfg.App.Version = buildVersion
	}
	cfg.App.BuildCommit = buildInfo.BuildCommit()
	cfg.App.BuildDate = buildInfo.BuildDate()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Error().Err(err).Msg("error closing storages")
		}
	}()

	services, err := service.NewServices(storages, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	bg := workers.NewWorkers(services, cfg.Workers, log)
	bg.Run(ctx)

	if err = srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server run error")
	}

	stop()
	bg.Wait()
	log.Info().Msg("stopped")
}
