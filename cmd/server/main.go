package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/meetscribe/backend/clients/cloudasr"
	"github.com/meetscribe/backend/clients/gemini"
	"github.com/meetscribe/backend/clients/whisper"
	"github.com/meetscribe/backend/config"
	"github.com/meetscribe/backend/gateways/api"
	"github.com/meetscribe/backend/pkg/executor"
	"github.com/meetscribe/backend/pkg/logger"
	"github.com/meetscribe/backend/report"
	"github.com/meetscribe/backend/services/meeting/pipeline"
	"github.com/meetscribe/backend/services/meeting/storage"
	"github.com/meetscribe/backend/services/meeting/usecase"
)

func main() {
	log := logger.New(logger.Config{
		Level:      slog.LevelDebug,
		Output:     os.Stderr,
		AddSource:  true,
		JSONFormat: false,
	})

	cfg := config.MustLoad()

	ctx := logger.WithContext(context.Background(), log)

	rootCtx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer cancel()

	if err := run(rootCtx, cfg, log); err != nil {
		log.Error("failed to run()", slog.String("error", err.Error()))
		return
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	for _, dir := range []string{cfg.Storage.UploadDir, cfg.Storage.ReportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Name,
		cfg.Database.Password,
		cfg.Database.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	stg := storage.New(db)
	if err := stg.EnsureSchema(ctx); err != nil {
		return err
	}

	transcriber, err := newTranscriber(cfg, log)
	if err != nil {
		return err
	}

	summarizer, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
	if err != nil {
		return fmt.Errorf("create summarizer: %w", err)
	}

	pipe := pipeline.New(stg, transcriber, summarizer, cfg.Pipeline.MaxConcurrent)
	if err := pipe.Reconcile(ctx); err != nil {
		return err
	}

	renderers := map[string]usecase.Renderer{
		"pdf":  report.NewPDF(),
		"docx": report.NewDocx(),
	}
	usc := usecase.New(stg, pipe, renderers, cfg.Storage.UploadDir, cfg.Storage.ReportDir)

	srv := api.New(cfg, log, usc)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	log.Info("waiting for in-flight pipeline runs")
	pipe.Wait()

	return nil
}

func newTranscriber(cfg *config.Config, log *slog.Logger) (pipeline.Transcriber, error) {
	switch cfg.Transcriber {
	case config.TranscriberCloud:
		return cloudasr.New(
			cfg.CloudASR.APIKey,
			cfg.CloudASR.URL,
			cfg.CloudASR.StreamURL,
			cfg.CloudASR.StreamingThreshold,
			log,
		), nil
	case config.TranscriberWhisper:
		return whisper.New(
			cfg.Whisper.BinaryPath,
			cfg.Whisper.ModelDir,
			cfg.Whisper.ModelSize,
			executor.New(),
			log,
		), nil
	default:
		return nil, fmt.Errorf("unknown transcriber %q", cfg.Transcriber)
	}
}
