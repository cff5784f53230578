package generator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/export"
	"github.com/vanshika/datafaker/internal/geocode"
	"github.com/vanshika/datafaker/internal/orggraph"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// stubProfiles hands out numbered profiles so scenarios can assert on exact values.
type stubProfiles struct {
	next   int
	phones int
	names  [][2]string
}

func (s *stubProfiles) Profile() domain.Profile {
	i := s.next
	s.next++

	first, last := fmt.Sprintf("First%d", i), fmt.Sprintf("Last%d", i)
	if i < len(s.names) {
		first, last = s.names[i][0], s.names[i][1]
	}
	return domain.Profile{
		Name:      first + " " + last,
		FirstName: first,
		LastName:  last,
		Company:   fmt.Sprintf("Company %d", i),
		SSN:       fmt.Sprintf("000-00-%04d", i),
		Address:   fmt.Sprintf("addr %d", i),
		Job:       "Analyst",
		Email:     fmt.Sprintf("person%d@mail.test", i),
		Birthdate: time.Date(1980, 1, 1+i%28, 0, 0, 0, 0, time.UTC),
	}
}

func (s *stubProfiles) DomainName() string       { return "Example.com" }
func (s *stubProfiles) CreditCardNumber() string { return "4000000000000002" }

func (s *stubProfiles) PhoneNumber() string {
	s.phones++
	return fmt.Sprintf("555-%04d", s.phones)
}

func (s *stubProfiles) DateTimeBetween(start, end time.Time) time.Time {
	return start.Add(end.Sub(start) / 2)
}

func chicago() geocode.Geocoder {
	return geocode.Func(func(context.Context, string) (domain.Location, error) {
		return domain.Location{X: -87.6, Y: 41.8}, nil
	})
}

type memWriter struct {
	order []string
	data  map[string][]export.Row
}

func newMemWriter() *memWriter {
	return &memWriter{data: make(map[string][]export.Row)}
}

func (m *memWriter) Write(_ context.Context, name string, rows []export.Row) error {
	m.order = append(m.order, name)
	m.data[name] = rows
	return nil
}

func (m *memWriter) Close() error { return nil }

func newSession(t *testing.T, cfg Config, g geocode.Geocoder, stub bool) *Session {
	t.Helper()
	s := New(cfg, g, zap.NewNop())
	s.WithClock(func() time.Time { return fixedNow })
	if stub {
		s.WithProfiles(&stubProfiles{})
	}
	return s
}

func allTransactions(people []*domain.Person, channel domain.Channel) []domain.Transaction {
	var out []domain.Transaction
	for _, p := range people {
		out = append(out, p.Transactions(channel)...)
	}
	return out
}

func TestRunTreeOfThree(t *testing.T) {
	// ten draws per person make an all-self-loop outcome practically impossible
	s := newSession(t, Config{Seed: 7, MinInteractions: 10, MaxInteractions: 10}, chicago(), true)
	w := newMemWriter()

	res, err := s.Run(context.Background(), Plan{
		People:    3,
		Topology:  orggraph.TopologyTree,
		WorkEmail: true,
		Emails:    true,
	}, w)
	require.NoError(t, err)

	assert.Equal(t, 3, res.People)
	assert.Equal(t, 2, res.Edges)
	assert.Equal(t, []string{"people", "coworker", "email"}, res.Datasets)
	assert.Equal(t, res.Datasets, w.order)

	people := s.People()
	require.Len(t, people, 3)

	degreeSum := 0
	for i, p := range people {
		assert.Equal(t, "Company 0", p.Company)
		n, ok := p.EmployeeNumber()
		require.True(t, ok)
		assert.Equal(t, i, n)
		assert.Len(t, p.Coworkers(), s.Graph().Degree(i))
		degreeSum += len(p.Coworkers())
		assert.NotContains(t, p.Coworkers(), p.Name)
	}
	assert.Equal(t, 4, degreeSum)
	assert.Len(t, w.data["coworker"], 4)

	pool := s.WorkEmails()
	mails := allTransactions(people, domain.ChannelEmail)
	require.NotEmpty(t, mails)
	for _, tx := range mails {
		assert.NotEqual(t, tx.Origin, tx.Destination)
		assert.Contains(t, pool, tx.Destination)
		assert.Nil(t, tx.Amount)
	}
	assert.Equal(t, len(mails), res.Transactions[domain.ChannelEmail].Recorded)
	assert.Len(t, w.data["email"], len(mails))
}

func TestRunPropagatesGeocodedCoordinates(t *testing.T) {
	s := newSession(t, Config{Seed: 1, MinInteractions: 10, MaxInteractions: 10}, chicago(), true)
	w := newMemWriter()

	_, err := s.Run(context.Background(), Plan{
		People:      2,
		Topology:    orggraph.TopologyNone,
		CreditCard:  true,
		PhoneNumber: true,
		Money:       true,
		PhoneCalls:  true,
	}, w)
	require.NoError(t, err)

	for _, row := range w.data["people"] {
		assert.Equal(t, "-87.6", row.String(export.ColX))
		assert.Equal(t, "41.8", row.String(export.ColY))
	}
	for _, channel := range []domain.Channel{domain.ChannelMoney, domain.ChannelPhoneCall} {
		txs := allTransactions(s.People(), channel)
		require.NotEmpty(t, txs, channel.String())
		for _, tx := range txs {
			assert.Equal(t, -87.6, tx.X)
			assert.Equal(t, 41.8, tx.Y)
		}
	}
	assert.Equal(t, []string{"people", "phonecall", "money"}, w.order)
}

func TestRunTransactionProperties(t *testing.T) {
	s := newSession(t, Config{Seed: 42, Workers: 4}, geocode.Offline{}, false)

	_, err := s.Run(context.Background(), Plan{
		People:      25,
		Topology:    orggraph.TopologyNone,
		WorkEmail:   true,
		PhoneNumber: true,
		CreditCard:  true,
		PhoneCalls:  true,
		Emails:      true,
		Money:       true,
	}, nil)
	require.NoError(t, err)

	windowStart := fixedNow.Add(-30 * 24 * time.Hour)
	companies := s.Companies()
	for _, p := range s.People() {
		_, ok := p.EmployeeNumber()
		assert.False(t, ok, "no employee numbers without a graph")
		assert.Empty(t, p.Coworkers())

		purchases := p.Transactions(domain.ChannelMoney)
		assert.GreaterOrEqual(t, len(purchases), 1)
		assert.LessOrEqual(t, len(purchases), 10)

		for _, channel := range domain.Channels {
			txs := p.Transactions(channel)
			assert.LessOrEqual(t, len(txs), 10)
			for _, tx := range txs {
				assert.False(t, tx.Timestamp.Before(windowStart), "timestamp %s before window", tx.Timestamp)
				assert.False(t, tx.Timestamp.After(fixedNow), "timestamp %s after now", tx.Timestamp)
				assert.Equal(t, p.Origin(channel), tx.Origin)

				if channel != domain.ChannelMoney {
					assert.NotEqual(t, tx.Origin, tx.Destination)
					assert.Nil(t, tx.Amount)
					assert.Equal(t, p.Location, domain.Location{X: tx.X, Y: tx.Y})
					continue
				}
				require.NotNil(t, tx.Amount)
				assert.GreaterOrEqual(t, *tx.Amount, 1)
				assert.LessOrEqual(t, *tx.Amount, 1000)
				assert.Contains(t, companies, tx.Destination)
				loc, ok := s.CompanyLocation(tx.Destination)
				require.True(t, ok)
				assert.Equal(t, loc, domain.Location{X: tx.X, Y: tx.Y})
			}
		}
	}
}

func TestRunIsReproducibleForASeed(t *testing.T) {
	plan := Plan{People: 6, Topology: orggraph.TopologyTree, CreditCard: true, Money: true}

	snapshot := func() []string {
		s := newSession(t, Config{Seed: 99}, geocode.Offline{}, false)
		_, err := s.Run(context.Background(), plan, nil)
		require.NoError(t, err)

		var out []string
		for _, p := range s.People() {
			out = append(out, p.Name+"|"+p.Address+"|"+strings.Join(p.Coworkers(), ","))
			for _, tx := range p.Transactions(domain.ChannelMoney) {
				out = append(out, tx.Destination+"|"+strconv.Itoa(*tx.Amount)+"|"+tx.Timestamp.String())
			}
		}
		return out
	}

	assert.Equal(t, snapshot(), snapshot())
}

func TestRunRejectsZeroPeople(t *testing.T) {
	s := newSession(t, DefaultConfig(), chicago(), true)
	w := newMemWriter()

	_, err := s.Run(context.Background(), Plan{People: 0, Topology: orggraph.TopologyTree}, w)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConfiguration))
	assert.Empty(t, w.order)
	assert.Empty(t, s.People())
}

func TestRunAbortsOnGeocodeFailure(t *testing.T) {
	failing := geocode.Func(func(_ context.Context, address string) (domain.Location, error) {
		if address == "addr 2" {
			return domain.Location{}, errors.New("service unavailable")
		}
		return domain.Location{X: 1, Y: 2}, nil
	})
	s := newSession(t, Config{Workers: 2}, failing, true)
	w := newMemWriter()

	_, err := s.Run(context.Background(), Plan{People: 4, Topology: orggraph.TopologyNone}, w)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeGeocode))
	assert.Empty(t, s.People())
	assert.Empty(t, s.Companies())
	assert.Empty(t, w.order)
}

func TestRunSkipsTransactionsWithoutEnrichment(t *testing.T) {
	s := newSession(t, DefaultConfig(), chicago(), true)
	w := newMemWriter()

	res, err := s.Run(context.Background(), Plan{People: 2, Emails: true, Money: true, CreditCard: true}, w)
	require.NoError(t, err)

	assert.NotContains(t, res.Transactions, domain.ChannelEmail)
	assert.Contains(t, res.Transactions, domain.ChannelMoney)
	assert.Equal(t, []string{"people", "money"}, w.order)
}

func TestRunRandomTopologyFallsBackToNoGraph(t *testing.T) {
	s := newSession(t, DefaultConfig(), chicago(), true)
	w := newMemWriter()

	_, err := s.Run(context.Background(), Plan{People: 3, Topology: orggraph.TopologyRandom}, w)
	require.NoError(t, err)

	assert.Nil(t, s.Graph())
	assert.Equal(t, []string{"people"}, w.order)
	for _, p := range s.People() {
		assert.Empty(t, p.Coworkers())
		_, ok := p.EmployeeNumber()
		assert.False(t, ok)
	}
	// companies are not shared without a graph
	assert.Equal(t, []string{"Company 0", "Company 1", "Company 2"}, s.Companies())
}

func TestMaterializeRejectsGraphSizeMismatch(t *testing.T) {
	s := newSession(t, DefaultConfig(), chicago(), true)
	g, err := s.BuildGraph(orggraph.TopologyTree, 4)
	require.NoError(t, err)

	_, err = s.Materialize(context.Background(), 3, g)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConfiguration))
}

func TestMaterializeKeepsOrderWithWorkers(t *testing.T) {
	byAddress := geocode.Func(func(_ context.Context, address string) (domain.Location, error) {
		n, err := strconv.Atoi(strings.TrimPrefix(address, "addr "))
		if err != nil {
			return domain.Location{}, err
		}
		return domain.Location{X: float64(n), Y: -float64(n)}, nil
	})
	s := newSession(t, Config{Workers: 8}, byAddress, true)

	people, err := s.Materialize(context.Background(), 50, nil)
	require.NoError(t, err)
	for i, p := range people {
		assert.Equal(t, fmt.Sprintf("First%d Last%d", i, i), p.Name)
		assert.Equal(t, float64(i), p.Location.X)
	}
}

func TestMaterializeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newSession(t, Config{Workers: 2}, geocode.Offline{}, true)
	_, err := s.Materialize(ctx, 5, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnrichment(t *testing.T) {
	s := newSession(t, DefaultConfig(), chicago(), false)
	s.WithProfiles(&stubProfiles{names: [][2]string{{"Mary-Jane", "O'Neil"}, {"José", "Ng"}}})

	_, err := s.Materialize(context.Background(), 2, nil)
	require.NoError(t, err)

	ran, err := s.EnrichWorkEmails(false)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.False(t, s.Enriched(domain.ChannelEmail))

	ran, err = s.EnrichWorkEmails(true)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []string{"maryjane.oneil@example.com", "jos.ng@example.com"}, s.WorkEmails())

	// a second call keeps the assigned addresses
	ran, err = s.EnrichWorkEmails(true)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Len(t, s.WorkEmails(), 2)

	ran, err = s.EnrichPhoneNumbers(true)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Len(t, s.PhoneNumbers(), 2)

	ran, err = s.EnrichCreditCards(true)
	require.NoError(t, err)
	assert.True(t, ran)
	for _, p := range s.People() {
		assert.True(t, p.HasCreditCard())
		assert.True(t, p.HasPhoneNumber())
	}
}

func TestWorkEmailsStayDistinct(t *testing.T) {
	s := newSession(t, DefaultConfig(), chicago(), false)
	s.WithProfiles(&stubProfiles{names: [][2]string{
		{"Ann", "Lee"}, {"Ann", "Lee"}, {"李", "王"}, {"", "Ng"}, {"Ann", "Lee"},
	}})

	_, err := s.Materialize(context.Background(), 5, nil)
	require.NoError(t, err)
	_, err = s.EnrichWorkEmails(true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ann.lee@example.com",
		"ann.lee2@example.com",
		"person2@example.com",
		"ng@example.com",
		"ann.lee3@example.com",
	}, s.WorkEmails())
}

func TestTimestampsNeverPassRunStart(t *testing.T) {
	s := newSession(t, Config{Seed: 3, MinInteractions: 5, MaxInteractions: 5}, chicago(), true)
	// the wall clock keeps moving after the run has started
	ticks := 0
	s.WithClock(func() time.Time {
		ticks++
		if ticks == 1 {
			return fixedNow
		}
		return fixedNow.Add(time.Duration(ticks) * 100 * 24 * time.Hour)
	})

	_, err := s.Materialize(context.Background(), 3, nil)
	require.NoError(t, err)
	_, err = s.EnrichPhoneNumbers(true)
	require.NoError(t, err)

	stats, err := s.Generate(domain.ChannelPhoneCall)
	require.NoError(t, err)
	assert.Equal(t, 15, stats.Drawn)
	for _, p := range s.People() {
		for _, tx := range p.Transactions(domain.ChannelPhoneCall) {
			assert.False(t, tx.Timestamp.After(s.RunStart()), "timestamp %s after run start", tx.Timestamp)
			assert.False(t, tx.Timestamp.Before(s.WindowStart()))
		}
	}
}

func TestGenerateRequiresEnrichment(t *testing.T) {
	s := newSession(t, DefaultConfig(), chicago(), true)
	_, err := s.Materialize(context.Background(), 2, nil)
	require.NoError(t, err)

	_, err = s.Generate(domain.ChannelEmail)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConfiguration))

	_, err = s.Generate(domain.Channel(0))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConfiguration))
}

func TestRunIndexedCollectsFailures(t *testing.T) {
	err := runIndexed(context.Background(), 1, 3, func(_ context.Context, idx int) error {
		if idx == 0 {
			return assert.AnError
		}
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Len(t, taskErr.Errors, 1)

	assert.NoError(t, runIndexed(context.Background(), 4, 0, nil))
}
