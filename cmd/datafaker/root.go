package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/config"
	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/geocode"
	"github.com/vanshika/datafaker/internal/graph"
	"github.com/vanshika/datafaker/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "datafaker",
		Short:         "Generate synthetic people, relationships and transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-encoding", "console", "log encoding (console, json)")
	pf.String("graph-uri", "", "Bolt URI of the Neo4j sink; empty disables it")
	pf.String("graph-database", "", "Neo4j database name")
	pf.String("graph-username", "", "Neo4j username")
	pf.String("graph-password", "", "Neo4j password")
	pf.Int("graph-batch-size", 500, "rows per UNWIND statement")

	root.AddCommand(newGenerateCmd(), newIngestCmd())
	return root
}

var persistentKeys = map[string]string{
	"logging.level":    "log-level",
	"logging.encoding": "log-encoding",
	"graph.uri":        "graph-uri",
	"graph.database":   "graph-database",
	"graph.username":   "graph-username",
	"graph.password":   "graph-password",
	"graph.batch_size": "graph-batch-size",
}

// loadConfig binds the command's flags on a fresh viper instance and loads the config.
func loadConfig(cmd *cobra.Command, keys map[string]string) (config.Config, error) {
	v := viper.New()
	all := make(map[string]string, len(persistentKeys)+len(keys))
	for k, name := range persistentKeys {
		all[k] = name
	}
	for k, name := range keys {
		all[k] = name
	}
	if err := config.BindFlags(v, cmd.Flags(), all); err != nil {
		return config.Config{}, err
	}
	return config.Load(v)
}

func setup(cmd *cobra.Command, keys map[string]string) (config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd, keys)
	if err != nil {
		return cfg, nil, err
	}
	logger := logging.NewWithWriter(cfg.Logging, cmd.ErrOrStderr()).With(zap.String("command", cmd.Name()))
	return cfg, logger, nil
}

func buildGeocoder(ctx context.Context, cfg config.Config, logger *zap.Logger) (geocode.Geocoder, func() error, error) {
	var base geocode.Geocoder
	switch cfg.Geocoder.Provider {
	case config.ProviderOffline:
		base = geocode.Offline{}
	case config.ProviderArcGIS:
		base = geocode.NewArcGIS(geocode.ArcGISOptions{
			BaseURL:    cfg.Geocoder.URL,
			Timeout:    cfg.Geocoder.Timeout,
			RetryCount: cfg.Geocoder.Retries,
		}, logger)
	default:
		return nil, nil, domain.Errorf(domain.ErrCodeConfiguration, "unknown geocoder provider %q", cfg.Geocoder.Provider)
	}

	noop := func() error { return nil }
	if cfg.Cache.Addr == "" {
		return base, noop, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("geocode cache unreachable, continuing without it",
			zap.String("addr", cfg.Cache.Addr), zap.Error(err))
		_ = rdb.Close()
		return base, noop, nil
	}
	logger.Info("geocode cache enabled", zap.String("addr", cfg.Cache.Addr), zap.Duration("ttl", cfg.Cache.TTL))
	return geocode.NewCached(base, rdb, cfg.Cache.TTL, logger), rdb.Close, nil
}

func buildGraphClient(ctx context.Context, cfg config.Config, logger *zap.Logger) (graph.Client, error) {
	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
		TxTimeout:      cfg.Graph.TxTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to graph: %w", err)
	}
	logger.Info("connected to graph", zap.String("uri", cfg.Graph.URI), zap.String("database", cfg.Graph.Database))
	return client, nil
}
