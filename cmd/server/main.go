package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/handler"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/server"
	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/internal/workers"
)

const serverRole = "go-photo-sync-server"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		logger.NewLogger(serverRole).Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger(serverRole, logger.WithLevel(cfg.App.LogLevel), logger.WithFile(cfg.App.LogFile))
	log.Debug().
		Str("http_address", cfg.Server.HTTPAddress).
		Str("grpc_address", cfg.Server.GRPCAddress).
		Str("binary_data_dir", cfg.Storage.Files.BinaryDataDir).
		Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := utils.NewSystemClock()

	storages, err := store.NewStorages(ctx, cfg.Storage, clock, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, *cfg, clock, utils.NewUUIDGenerator(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	workers.NewWorkers(services, cfg.Workers, log).Run(ctx)

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
