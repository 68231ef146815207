package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mohammad-safakhou/roomfinder/config"
	"github.com/mohammad-safakhou/roomfinder/internal/corpus"
	"github.com/mohammad-safakhou/roomfinder/internal/enrichment"
	"github.com/mohammad-safakhou/roomfinder/internal/logging"
	"github.com/mohammad-safakhou/roomfinder/internal/ranking"
	srv "github.com/mohammad-safakhou/roomfinder/internal/server"
	"github.com/mohammad-safakhou/roomfinder/internal/submission"
	"github.com/mohammad-safakhou/roomfinder/internal/telemetry"
	"github.com/mohammad-safakhou/roomfinder/internal/validation"
	"github.com/mohammad-safakhou/roomfinder/provider/factory"
)

func serveCMD() *cobra.Command {
	var serveAddr string
	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if serveAddr != "" {
				cfg.Server.Address = serveAddr
				cfg.Server = cfg.Server.Normalize()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.address)")
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json)")

	return serve
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.General.LogLevel, cfg.General.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var metrics *telemetry.Metrics
	if cfg.Telemetry.Enabled {
		metrics = telemetry.New()
	}

	schemas, err := validation.Builtin()
	if err != nil {
		return fmt.Errorf("load schemas: %w", err)
	}

	idx := corpus.NewIndex()
	if cfg.Corpus.SeedFile != "" {
		rooms, err := corpus.LoadSeed(cfg.Corpus.SeedFile)
		if err != nil {
			return err
		}
		n := corpus.Seed(idx, rooms)
		logger.Info("corpus seeded", zap.String("file", cfg.Corpus.SeedFile), zap.Int("rooms", n))
	}
	metrics.CorpusSize(idx.Len())

	providers, err := factory.NewSet(ctx, cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("text service: %w", err)
	}

	describer := enrichment.Passthrough
	if cfg.Enrichment.Enabled {
		describer = enrichment.NewService(providers.Enrichment, cfg.Enrichment.MaxDescriptionLen, metrics, logger)
	}
	coord := submission.NewCoordinator(idx,
		submission.WithDescriber(describer),
		submission.WithMetrics(metrics),
		submission.WithLogger(logger),
	)
	pipeline := ranking.NewPipeline(ranking.NewServiceRanker(providers.Ranking, metrics, logger), metrics, logger)

	e, err := srv.New(cfg, srv.Deps{
		Corpus:      idx,
		Schemas:     schemas,
		Coordinator: coord,
		Pipeline:    pipeline,
		Metrics:     metrics,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, cfg.Server, e, logger)
}
