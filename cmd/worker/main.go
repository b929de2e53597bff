package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/dharsanguruparan/AkademIQ/internal/client"
	"github.com/dharsanguruparan/AkademIQ/internal/config"
	"github.com/dharsanguruparan/AkademIQ/internal/database"
	"github.com/dharsanguruparan/AkademIQ/internal/repository"
	"github.com/dharsanguruparan/AkademIQ/internal/s3storage"
	"github.com/dharsanguruparan/AkademIQ/internal/signing"
	"github.com/dharsanguruparan/AkademIQ/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !cfg.JobsEnabled() {
		log.Fatalf("AKADEMIQ_SIGNING_SECRET is required")
	}

	// Interfaces stay nil (not typed-nil pointers) when a backend is off.
	var journal worker.Journal
	if cfg.JournalEnabled() {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("connect database: %v", err)
		}
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
		journal = repository.NewJournalRepository(pool)
	}

	var archive worker.AudioArchive
	if cfg.S3Enabled() {
		store, err := s3storage.New(cfg)
		if err != nil {
			log.Fatalf("init storage: %v", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatalf("ensure bucket: %v", err)
		}
		archive = store
	}

	backend := func(token string) worker.Backend {
		return client.New(cfg.APIBase, cfg.HTTPTimeout, client.WithToken(token))
	}
	processor := worker.NewProcessor(backend, signing.NewSigner(cfg.SigningSecret), journal, archive)

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, asynq.Config{
		Concurrency: cfg.WorkerCount,
	})

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	log.Printf("worker started against %s (journal=%t archive=%t)", cfg.APIBase, journal != nil, archive != nil)
	if err := server.Run(processor.Handler()); err != nil {
		log.Printf("worker stopped: %v", err)
		os.Exit(1)
	}
}
