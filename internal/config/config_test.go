package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/orggraph"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ProviderArcGIS, cfg.Geocoder.Provider)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, 30*24*time.Hour, cfg.Generator.Lookback)
	assert.Equal(t, uint64(0), cfg.Generator.Seed)
	assert.True(t, cfg.Generator.Interactive)
	assert.Empty(t, cfg.Cache.Addr)
	assert.Equal(t, 500, cfg.Graph.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.Graph.TxTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATAFAKER_GENERATOR_PEOPLE", "12")
	t.Setenv("DATAFAKER_GENERATOR_TOPOLOGY", "tree")
	t.Setenv("DATAFAKER_GENERATOR_SEED", "77")
	t.Setenv("DATAFAKER_GENERATOR_MONEY", "true")
	t.Setenv("DATAFAKER_GEOCODER_PROVIDER", "Offline")
	t.Setenv("DATAFAKER_CACHE_TTL", "1h")
	t.Setenv("DATAFAKER_OUTPUT_FORMAT", "xlsx")
	t.Setenv("DATAFAKER_GRAPH_TX_TIMEOUT", "5s")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Generator.People)
	assert.Equal(t, uint64(77), cfg.Generator.Seed)
	assert.Equal(t, ProviderOffline, cfg.Geocoder.Provider)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "xlsx", cfg.Output.Format)
	assert.Equal(t, 5*time.Second, cfg.Graph.TxTimeout)

	plan, err := cfg.Generator.Plan()
	require.NoError(t, err)
	assert.Equal(t, 12, plan.People)
	assert.Equal(t, orggraph.TopologyTree, plan.Topology)
	assert.True(t, plan.Money)
	assert.False(t, plan.Emails)

	assert.Equal(t, uint64(77), cfg.Generator.Session().Seed)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("DATAFAKER_OUTPUT_DIR", "/from/env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("out", ".", "")
	flags.Int("people", 0, "")
	require.NoError(t, flags.Parse([]string{"--out", "/from/flag"}))

	v := viper.New()
	require.NoError(t, BindFlags(v, flags, map[string]string{
		"output.dir":       "out",
		"generator.people": "people",
	}))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.Output.Dir)

	err = BindFlags(v, flags, map[string]string{"output.format": "format"})
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"DATAFAKER_GEOCODER_PROVIDER": "nominatim",
		"DATAFAKER_OUTPUT_FORMAT":     "parquet",
		"DATAFAKER_GENERATOR_WORKERS": "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load(viper.New())
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeConfiguration))
		})
	}
}

func TestPlanRejectsUnknownTopology(t *testing.T) {
	_, err := GeneratorConfig{People: 1, Topology: "mesh"}.Plan()
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConfiguration))
}
