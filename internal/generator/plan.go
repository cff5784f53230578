package generator

import (
	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/orggraph"
)

// Validate rejects plans that cannot start a run.
func (p Plan) Validate() error {
	if p.People <= 0 {
		return domain.Errorf(domain.ErrCodeConfiguration, "person count must be a positive whole number, got %d", p.People)
	}
	switch p.Topology {
	case orggraph.TopologyNone, orggraph.TopologyTree, orggraph.TopologyRandom:
	default:
		return domain.Errorf(domain.ErrCodeConfiguration, "unrecognized graph topology %s", p.Topology)
	}
	return nil
}

// Enrich reports whether the plan asks for the attribute a channel originates from.
func (p Plan) Enrich(channel domain.Channel) bool {
	switch channel {
	case domain.ChannelMoney:
		return p.CreditCard
	case domain.ChannelEmail:
		return p.WorkEmail
	case domain.ChannelPhoneCall:
		return p.PhoneNumber
	}
	return false
}

// Transactions reports whether the plan asks for transactions on a channel.
func (p Plan) Transactions(channel domain.Channel) bool {
	switch channel {
	case domain.ChannelMoney:
		return p.Money
	case domain.ChannelEmail:
		return p.Emails
	case domain.ChannelPhoneCall:
		return p.PhoneCalls
	}
	return false
}
