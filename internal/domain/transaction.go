package domain

import (
	"strings"
	"time"
)

// Transaction is a directed interaction between an origin and a destination.
type Transaction struct {
	Origin      string
	Destination string
	Timestamp   time.Time
	// Amount is only set on money transactions.
	Amount  *int
	Channel Channel
	X       float64
	Y       float64
}

// NewTransaction validates the fields once and returns the record. A malformed record
// indicates a generator defect, so every violation is a TRANSACTION_VALIDATION error.
func NewTransaction(origin, destination string, at time.Time, amount *int, channel Channel, loc Location) (Transaction, error) {
	if !channel.Valid() {
		return Transaction{}, Errorf(ErrCodeTransactionValidation, "unrecognized channel %s", channel)
	}
	if strings.TrimSpace(origin) == "" {
		return Transaction{}, Errorf(ErrCodeTransactionValidation, "%s transaction requires an origin", channel)
	}
	if strings.TrimSpace(destination) == "" {
		return Transaction{}, Errorf(ErrCodeTransactionValidation, "%s transaction requires a destination", channel)
	}
	if at.IsZero() {
		return Transaction{}, Errorf(ErrCodeTransactionValidation, "%s transaction requires a timestamp", channel)
	}

	switch channel {
	case ChannelMoney:
		if amount == nil || *amount < 1 {
			return Transaction{}, NewError(ErrCodeTransactionValidation, "money transaction requires a positive amount")
		}
		v := *amount
		amount = &v
	default:
		if amount != nil {
			return Transaction{}, Errorf(ErrCodeTransactionValidation, "%s transaction cannot carry an amount", channel)
		}
	}

	return Transaction{
		Origin:      origin,
		Destination: destination,
		Timestamp:   at,
		Amount:      amount,
		Channel:     channel,
		X:           loc.X,
		Y:           loc.Y,
	}, nil
}

// IsSelfLoop reports whether the transaction points back at its origin.
func (t Transaction) IsSelfLoop() bool {
	return t.Origin == t.Destination
}
