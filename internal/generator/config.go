package generator

import (
	"time"

	"github.com/vanshika/datafaker/internal/orggraph"
)

// Config drives a generation session.
type Config struct {
	Seed uint64
	// Workers bounds concurrent geocoding calls during materialization.
	Workers         int
	Lookback        time.Duration
	MinInteractions int
	MaxInteractions int
	MaxAmount       int
}

// DefaultConfig mirrors the classic data faker: a 30 day window, 1-10 interactions per
// person and purchases of up to 1000.
func DefaultConfig() Config {
	return Config{
		Seed:            0,
		Workers:         1,
		Lookback:        30 * 24 * time.Hour,
		MinInteractions: 1,
		MaxInteractions: 10,
		MaxAmount:       1000,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.Lookback <= 0 {
		c.Lookback = def.Lookback
	}
	if c.MinInteractions <= 0 {
		c.MinInteractions = def.MinInteractions
	}
	if c.MaxInteractions < c.MinInteractions {
		c.MaxInteractions = max(def.MaxInteractions, c.MinInteractions)
	}
	if c.MaxAmount <= 0 {
		c.MaxAmount = def.MaxAmount
	}
	return c
}

// Plan is the set of answers gathered from a configuration source before a run starts.
type Plan struct {
	People   int
	Topology orggraph.Topology

	WorkEmail   bool
	PhoneNumber bool
	CreditCard  bool

	PhoneCalls bool
	Emails     bool
	Money      bool
}
