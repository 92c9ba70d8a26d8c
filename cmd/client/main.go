package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-invoicer/internal/adapter"
	"github.com/MKhiriev/go-invoicer/internal/client"
	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/models"

	"github.com/rs/zerolog"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewConsoleLogger("go-invoicer-client")
	log.Logger = log.Level(zerolog.InfoLevel)

	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := client.NewApp(serverAdapter, cfg.Token, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), os.Stdout, log)
	if err = app.Run(ctx, cfg.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
