package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/config"
	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/export"
	"github.com/vanshika/datafaker/internal/generator"
	"github.com/vanshika/datafaker/internal/prompt"
	"github.com/vanshika/datafaker/internal/repository"
)

var generateKeys = map[string]string{
	"generator.people":       "people",
	"generator.topology":     "topology",
	"generator.seed":         "seed",
	"generator.workers":      "workers",
	"generator.lookback":     "lookback",
	"generator.interactive":  "interactive",
	"generator.work_email":   "work-email",
	"generator.phone_number": "phone-number",
	"generator.credit_card":  "credit-card",
	"generator.phone_calls":  "phone-calls",
	"generator.emails":       "emails",
	"generator.money":        "money",
	"geocoder.provider":      "geocoder",
	"geocoder.url":           "geocoder-url",
	"cache.addr":             "redis-addr",
	"cache.ttl":              "cache-ttl",
	"output.dir":             "out",
	"output.format":          "format",
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create people and their transactions and export every dataset",
		Long: `Builds an optional coworker graph, materializes geocoded people, assigns work
emails, phone numbers and credit cards, generates phone calls, emails and purchases,
then writes one dataset per kind (people, coworker, phonecall, email, money).

Answers are asked interactively unless --interactive=false, in which case they come
from flags and DATAFAKER_* environment variables.`,
		RunE: runGenerate,
	}

	f := cmd.Flags()
	f.Int("people", 0, "number of people to create")
	f.String("topology", "none", "coworker graph topology (tree, random, none)")
	f.Uint64("seed", 0, "random seed; equal seeds reproduce a run")
	f.Int("workers", 1, "concurrent geocoding requests")
	f.Duration("lookback", 30*24*time.Hour, "how far back transaction timestamps may reach")
	f.Bool("interactive", true, "ask for the plan on the terminal")
	f.Bool("work-email", false, "assign work email addresses")
	f.Bool("phone-number", false, "assign phone numbers")
	f.Bool("credit-card", false, "assign credit cards")
	f.Bool("phone-calls", false, "generate phone calls")
	f.Bool("emails", false, "generate emails")
	f.Bool("money", false, "generate credit card purchases")
	f.String("geocoder", config.ProviderArcGIS, "geocoder provider (arcgis, offline)")
	f.String("geocoder-url", "", "override the ArcGIS geocode server URL")
	f.String("redis-addr", "", "Redis address for the geocode cache; empty disables it")
	f.Duration("cache-ttl", 7*24*time.Hour, "lifetime of cached geocode results")
	f.String("out", ".", "output directory")
	f.String("format", export.FormatCSV, "output format (csv, xlsx, sqlite)")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) (err error) {
	cfg, logger, err := setup(cmd, generateKeys)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := generate(ctx, cmd, cfg, logger); err != nil {
		logger.Error("generation failed", zap.Error(err))
		return err
	}
	return nil
}

func generate(ctx context.Context, cmd *cobra.Command, cfg config.Config, logger *zap.Logger) (err error) {
	var source prompt.Source
	if cfg.Generator.Interactive {
		source = prompt.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	} else {
		plan, err := cfg.Generator.Plan()
		if err != nil {
			return err
		}
		source = prompt.Static{Plan: plan}
	}

	plan, err := source.Collect(ctx)
	if err != nil {
		return err
	}

	geocoder, closeGeocoder, err := buildGeocoder(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeGeocoder()) }()

	session := generator.New(cfg.Generator.Session(), geocoder, logger)

	writer, err := export.NewWriter(cfg.Output.Format, cfg.Output.Dir)
	if err != nil {
		return err
	}
	if cfg.Graph.URI != "" {
		client, err := buildGraphClient(ctx, cfg, logger)
		if err != nil {
			return multierr.Append(err, writer.Close())
		}
		writer = export.MultiWriter(writer, repository.New(client, session.RunID(), cfg.Graph.BatchSize, logger))
	}

	res, err := session.Run(ctx, plan, writer)
	if err = multierr.Append(err, writer.Close()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d people (run %s) into %s as %s:",
		res.People, res.RunID, cfg.Output.Dir, cfg.Output.Format)
	for _, name := range res.Datasets {
		fmt.Fprintf(cmd.OutOrStdout(), " %s", name)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	for _, c := range domain.Channels {
		if stats, ok := res.Transactions[c]; ok {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-9s %d recorded, %d dropped\n", c, stats.Recorded, stats.Dropped)
		}
	}
	return nil
}
