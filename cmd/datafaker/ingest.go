package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/config"
	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/export"
	"github.com/vanshika/datafaker/internal/repository"
)

// ingestOrder loads people before the datasets that reference them.
var ingestOrder = []export.Kind{
	export.KindPeople,
	export.KindCoworker,
	export.KindPhoneCall,
	export.KindEmail,
	export.KindMoney,
}

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load CSV datasets written by generate into the Neo4j sink",
		RunE:  runIngest,
	}
	cmd.Flags().String("dir", ".", "directory holding people.csv and the other datasets")
	cmd.Flags().String("run-id", "", "run id to tag nodes with; a new one is generated when empty")
	return cmd
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dir, _ := cmd.Flags().GetString("dir")
	runID, _ := cmd.Flags().GetString("run-id")
	if runID == "" {
		runID = uuid.NewString()
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := ingest(ctx, cfg, dir, runID, logger.With(zap.String("run_id", runID))); err != nil {
		logger.Error("ingestion failed", zap.Error(err))
		return err
	}
	return nil
}

func ingest(ctx context.Context, cfg config.Config, dir, runID string, logger *zap.Logger) error {
	if cfg.Graph.URI == "" {
		return domain.NewError(domain.ErrCodeConfiguration, "a graph URI is required for ingestion")
	}

	datasets := make(map[export.Kind][]export.Row, len(ingestOrder))
	for _, kind := range ingestOrder {
		path := filepath.Join(dir, kind.String()+".csv")
		rows, err := export.ReadCSV(path)
		if errors.Is(err, os.ErrNotExist) {
			if kind == export.KindPeople {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		datasets[kind] = rows
	}

	client, err := buildGraphClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	repo := repository.New(client, runID, cfg.Graph.BatchSize, logger)
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("closing graph client failed", zap.Error(err))
		}
	}()

	start := time.Now()
	for _, kind := range ingestOrder {
		rows, ok := datasets[kind]
		if !ok {
			continue
		}
		if err := repo.Write(ctx, kind.String(), rows); err != nil {
			return err
		}
	}

	people, txs, err := repo.Counts(ctx)
	if err != nil {
		return err
	}
	logger.Info("ingestion complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int64("people", people),
		zap.Int64("transactions", txs),
	)
	return nil
}
