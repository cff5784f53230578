package generator

import (
	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/domain"
)

// GenerateStats counts the outcome of one channel pass.
type GenerateStats struct {
	Channel  domain.Channel
	Drawn    int
	Recorded int
	Dropped  int
}

// Generate appends a random number of transactions on channel to every person's log.
// Emails and calls addressed to the sender are dropped without a retry.
func (s *Session) Generate(channel domain.Channel) (GenerateStats, error) {
	stats := GenerateStats{Channel: channel}
	if !channel.Valid() {
		return stats, domain.Errorf(domain.ErrCodeConfiguration, "unrecognized channel %s", channel)
	}
	if !s.enriched[channel] {
		return stats, domain.Errorf(domain.ErrCodeConfiguration, "%s transactions need their sender attribute assigned first", channel)
	}

	pool := s.pool(channel)
	if len(pool) == 0 {
		return stats, domain.Errorf(domain.ErrCodeConfiguration, "no counterparties available for %s transactions", channel)
	}

	span := s.cfg.MaxInteractions - s.cfg.MinInteractions + 1
	for _, person := range s.people {
		n := s.cfg.MinInteractions + s.rand.IntN(span)
		for i := 0; i < n; i++ {
			stats.Drawn++

			destination := pool[s.rand.IntN(len(pool))]
			at := s.profiles.DateTimeBetween(s.WindowStart(), s.runStart)

			var amount *int
			loc := person.Location
			if channel == domain.ChannelMoney {
				v := 1 + s.rand.IntN(s.cfg.MaxAmount)
				amount = &v
				loc = s.companyLocations[destination]
			}

			tx, err := domain.NewTransaction(person.Origin(channel), destination, at, amount, channel, loc)
			if err != nil {
				return stats, err
			}
			if channel != domain.ChannelMoney && tx.IsSelfLoop() {
				stats.Dropped++
				continue
			}
			person.Record(tx)
			stats.Recorded++
		}
	}

	s.logger.Info("transactions generated",
		zap.String("channel", channel.String()),
		zap.Int("drawn", stats.Drawn),
		zap.Int("recorded", stats.Recorded),
		zap.Int("dropped", stats.Dropped),
	)
	return stats, nil
}

func (s *Session) pool(channel domain.Channel) []string {
	switch channel {
	case domain.ChannelMoney:
		return s.companies
	case domain.ChannelEmail:
		return s.workEmails
	case domain.ChannelPhoneCall:
		return s.phoneNumbers
	}
	return nil
}
