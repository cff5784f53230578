package domain

import (
	"fmt"
	"strings"
)

// Channel identifies the kind of interaction a transaction records.
type Channel int

const (
	ChannelMoney Channel = iota + 1
	ChannelEmail
	ChannelPhoneCall
)

// Channels lists every channel in generation order.
var Channels = []Channel{ChannelPhoneCall, ChannelEmail, ChannelMoney}

func (c Channel) String() string {
	switch c {
	case ChannelMoney:
		return "money"
	case ChannelEmail:
		return "email"
	case ChannelPhoneCall:
		return "phonecall"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Valid reports whether c is one of the named channels.
func (c Channel) Valid() bool {
	switch c {
	case ChannelMoney, ChannelEmail, ChannelPhoneCall:
		return true
	}
	return false
}

// ParseChannel maps a dataset name onto its channel.
func ParseChannel(value string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "money":
		return ChannelMoney, nil
	case "email":
		return ChannelEmail, nil
	case "phonecall", "phone":
		return ChannelPhoneCall, nil
	}
	return 0, Errorf(ErrCodeConfiguration, "unknown channel %q", value)
}
