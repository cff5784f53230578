package generator

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/geocode"
	"github.com/vanshika/datafaker/internal/orggraph"
	"github.com/vanshika/datafaker/internal/profile"
)

// Session owns all state of one generation run: the random source, the relationship
// graph, the people and the counterparty pools derived from them.
type Session struct {
	cfg      Config
	rand     *rand.Rand
	profiles profile.Generator
	geocoder geocode.Geocoder
	logger   *zap.Logger
	nowFn    func() time.Time

	runID    string
	runStart time.Time

	graph            *orggraph.Graph
	people           []*domain.Person
	companies        []string
	workEmails       []string
	phoneNumbers     []string
	companyLocations map[string]domain.Location
	enriched         map[domain.Channel]bool
}

// New returns a session seeded from cfg.Seed. Profiles come from a gofakeit-backed
// generator sharing the session's random source.
func New(cfg Config, geocoder geocode.Geocoder, logger *zap.Logger) *Session {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	runID := uuid.NewString()
	s := &Session{
		cfg:              cfg,
		rand:             rng,
		profiles:         profile.New(rng),
		geocoder:         geocoder,
		logger:           logger.With(zap.String("run_id", runID)),
		nowFn:            time.Now,
		runID:            runID,
		companyLocations: make(map[string]domain.Location),
		enriched:         make(map[domain.Channel]bool),
	}
	s.runStart = s.nowFn()
	return s
}

// WithClock overrides the time provider and restarts the run clock (used primarily in tests).
func (s *Session) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
		s.runStart = nowFn()
	}
}

// WithProfiles swaps the profile generator.
func (s *Session) WithProfiles(gen profile.Generator) {
	if gen != nil {
		s.profiles = gen
	}
}

func (s *Session) RunID() string            { return s.runID }
func (s *Session) RunStart() time.Time      { return s.runStart }
func (s *Session) Graph() *orggraph.Graph   { return s.graph }
func (s *Session) People() []*domain.Person { return s.people }
func (s *Session) Companies() []string      { return append([]string(nil), s.companies...) }
func (s *Session) WorkEmails() []string     { return append([]string(nil), s.workEmails...) }
func (s *Session) PhoneNumbers() []string   { return append([]string(nil), s.phoneNumbers...) }

// Enriched reports whether the attribute behind a channel has been assigned.
func (s *Session) Enriched(c domain.Channel) bool { return s.enriched[c] }

// WindowStart is the earliest instant a transaction may carry.
func (s *Session) WindowStart() time.Time {
	return s.runStart.Add(-s.cfg.Lookback)
}

// CompanyLocation returns the last location recorded for a company.
func (s *Session) CompanyLocation(company string) (domain.Location, bool) {
	loc, ok := s.companyLocations[company]
	return loc, ok
}

// BuildGraph constructs the relationship graph for n people. A nil graph with a nil
// error means the topology has no builder and the run continues without coworkers.
func (s *Session) BuildGraph(topology orggraph.Topology, n int) (*orggraph.Graph, error) {
	g, err := orggraph.Build(topology, n, s.rand)
	if err != nil {
		return nil, err
	}
	if g == nil {
		s.logger.Warn("graph topology not implemented, generating people without coworkers",
			zap.String("topology", topology.String()))
		return nil, nil
	}

	st := g.Stats()
	s.logger.Info("relationship graph built",
		zap.String("topology", topology.String()),
		zap.Int("nodes", st.Nodes),
		zap.Int("edges", st.Edges),
		zap.Int("components", st.Components),
		zap.Int("max_degree", st.MaxDegree),
		zap.Int("leaves", st.Leaves),
	)
	return g, nil
}
