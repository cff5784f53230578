package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/generator"
	"github.com/vanshika/datafaker/internal/orggraph"
)

// EnvPrefix namespaces every environment variable, e.g. DATAFAKER_OUTPUT_DIR.
const EnvPrefix = "DATAFAKER"

// Config aggregates application configuration values.
type Config struct {
	Generator GeneratorConfig
	Geocoder  GeocoderConfig
	Cache     CacheConfig
	Output    OutputConfig
	Graph     GraphConfig
	Logging   LoggingConfig
}

// GeneratorConfig holds the run shape and, for non-interactive runs, every answer the
// prompter would otherwise ask for.
type GeneratorConfig struct {
	People      int
	Topology    string
	Seed        uint64
	Workers     int
	Lookback    time.Duration
	Interactive bool

	WorkEmail   bool
	PhoneNumber bool
	CreditCard  bool
	PhoneCalls  bool
	Emails      bool
	Money       bool
}

// GeocoderConfig selects and tunes the address resolver.
type GeocoderConfig struct {
	Provider string // arcgis|offline
	URL      string
	Timeout  time.Duration
	Retries  int
}

// CacheConfig points at the Redis instance caching geocode results. An empty Addr
// disables caching.
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// OutputConfig controls where datasets land.
type OutputConfig struct {
	Dir    string
	Format string // csv|xlsx|sqlite
}

// GraphConfig describes connectivity to the Neo4j sink. An empty URI disables it.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
	BatchSize      int
	TxTimeout      time.Duration
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level    string
	Encoding string // json|console
}

const (
	ProviderArcGIS  = "arcgis"
	ProviderOffline = "offline"
)

// SetDefaults registers every key with its default so that env lookups work for all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generator.people", 0)
	v.SetDefault("generator.topology", "none")
	v.SetDefault("generator.seed", 0)
	v.SetDefault("generator.workers", 1)
	v.SetDefault("generator.lookback", 30*24*time.Hour)
	v.SetDefault("generator.interactive", true)
	v.SetDefault("generator.work_email", false)
	v.SetDefault("generator.phone_number", false)
	v.SetDefault("generator.credit_card", false)
	v.SetDefault("generator.phone_calls", false)
	v.SetDefault("generator.emails", false)
	v.SetDefault("generator.money", false)

	v.SetDefault("geocoder.provider", ProviderArcGIS)
	v.SetDefault("geocoder.url", "https://geocode.arcgis.com/arcgis/rest/services/World/GeocodeServer")
	v.SetDefault("geocoder.timeout", 10*time.Second)
	v.SetDefault("geocoder.retries", 2)

	v.SetDefault("cache.addr", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 7*24*time.Hour)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", "csv")

	v.SetDefault("graph.uri", "")
	v.SetDefault("graph.database", "")
	v.SetDefault("graph.username", "")
	v.SetDefault("graph.password", "")
	v.SetDefault("graph.max_connections", 10)
	v.SetDefault("graph.batch_size", 500)
	v.SetDefault("graph.tx_timeout", 30*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
}

// BindFlags maps config keys onto command-line flags; a set flag wins over env and defaults.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("bind %s: flag --%s not defined", key, name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// Load reads configuration from flags bound on v, environment variables (optionally
// .env) and defaults, in that order of precedence.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	_ = godotenv.Load(".env")

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		Generator: GeneratorConfig{
			People:      v.GetInt("generator.people"),
			Topology:    v.GetString("generator.topology"),
			Seed:        v.GetUint64("generator.seed"),
			Workers:     v.GetInt("generator.workers"),
			Lookback:    v.GetDuration("generator.lookback"),
			Interactive: v.GetBool("generator.interactive"),
			WorkEmail:   v.GetBool("generator.work_email"),
			PhoneNumber: v.GetBool("generator.phone_number"),
			CreditCard:  v.GetBool("generator.credit_card"),
			PhoneCalls:  v.GetBool("generator.phone_calls"),
			Emails:      v.GetBool("generator.emails"),
			Money:       v.GetBool("generator.money"),
		},
		Geocoder: GeocoderConfig{
			Provider: strings.ToLower(v.GetString("geocoder.provider")),
			URL:      v.GetString("geocoder.url"),
			Timeout:  v.GetDuration("geocoder.timeout"),
			Retries:  v.GetInt("geocoder.retries"),
		},
		Cache: CacheConfig{
			Addr:     v.GetString("cache.addr"),
			Password: v.GetString("cache.password"),
			DB:       v.GetInt("cache.db"),
			TTL:      v.GetDuration("cache.ttl"),
		},
		Output: OutputConfig{
			Dir:    v.GetString("output.dir"),
			Format: strings.ToLower(v.GetString("output.format")),
		},
		Graph: GraphConfig{
			URI:            v.GetString("graph.uri"),
			Database:       v.GetString("graph.database"),
			Username:       v.GetString("graph.username"),
			Password:       v.GetString("graph.password"),
			MaxConnections: v.GetInt("graph.max_connections"),
			BatchSize:      v.GetInt("graph.batch_size"),
			TxTimeout:      v.GetDuration("graph.tx_timeout"),
		},
		Logging: LoggingConfig{
			Level:    v.GetString("logging.level"),
			Encoding: v.GetString("logging.encoding"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Geocoder.Provider {
	case ProviderArcGIS, ProviderOffline:
	default:
		return domain.Errorf(domain.ErrCodeConfiguration, "unknown geocoder provider %q", c.Geocoder.Provider)
	}
	switch c.Output.Format {
	case "csv", "xlsx", "sqlite":
	default:
		return domain.Errorf(domain.ErrCodeConfiguration, "unknown output format %q", c.Output.Format)
	}
	if c.Generator.Workers <= 0 {
		return domain.Errorf(domain.ErrCodeConfiguration, "workers must be positive, got %d", c.Generator.Workers)
	}
	if c.Generator.Lookback <= 0 {
		return domain.Errorf(domain.ErrCodeConfiguration, "lookback must be positive, got %s", c.Generator.Lookback)
	}
	return nil
}

// Session converts the generator section into session settings.
func (g GeneratorConfig) Session() generator.Config {
	cfg := generator.DefaultConfig()
	cfg.Seed = g.Seed
	cfg.Workers = g.Workers
	cfg.Lookback = g.Lookback
	return cfg
}

// Plan converts the non-interactive answers into a run plan.
func (g GeneratorConfig) Plan() (generator.Plan, error) {
	topology, err := orggraph.ParseTopology(g.Topology)
	if err != nil {
		return generator.Plan{}, err
	}
	return generator.Plan{
		People:      g.People,
		Topology:    topology,
		WorkEmail:   g.WorkEmail,
		PhoneNumber: g.PhoneNumber,
		CreditCard:  g.CreditCard,
		PhoneCalls:  g.PhoneCalls,
		Emails:      g.Emails,
		Money:       g.Money,
	}, nil
}
