package generator

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/domain"
)

// EnrichWorkEmails gives every person firstname.lastname at one domain shared by the
// whole batch and records the addresses in the work-email pool.
func (s *Session) EnrichWorkEmails(enabled bool) (bool, error) {
	if !enabled {
		return false, nil
	}
	if s.enriched[domain.ChannelEmail] {
		return true, nil
	}

	mailDomain := s.profiles.DomainName()
	taken := make(map[string]int, len(s.people))
	for i, p := range s.people {
		addr := workEmail(p.Profile, mailDomain, i, taken)
		if err := p.SetWorkEmail(addr); err != nil {
			return false, fmt.Errorf("work email for %s: %w", p.Name, err)
		}
		s.workEmails = append(s.workEmails, addr)
	}
	s.enriched[domain.ChannelEmail] = true
	s.logger.Info("work emails assigned", zap.String("domain", mailDomain), zap.Int("count", len(s.people)))
	return true, nil
}

// EnrichPhoneNumbers assigns one phone number per person and pools them.
func (s *Session) EnrichPhoneNumbers(enabled bool) (bool, error) {
	if !enabled {
		return false, nil
	}
	if s.enriched[domain.ChannelPhoneCall] {
		return true, nil
	}

	for _, p := range s.people {
		number := s.profiles.PhoneNumber()
		if err := p.SetPhoneNumber(number); err != nil {
			return false, fmt.Errorf("phone number for %s: %w", p.Name, err)
		}
		s.phoneNumbers = append(s.phoneNumbers, number)
	}
	s.enriched[domain.ChannelPhoneCall] = true
	s.logger.Info("phone numbers assigned", zap.Int("count", len(s.people)))
	return true, nil
}

// EnrichCreditCards assigns one card number per person. Purchases go to companies, so
// card numbers are not pooled.
func (s *Session) EnrichCreditCards(enabled bool) (bool, error) {
	if !enabled {
		return false, nil
	}
	if s.enriched[domain.ChannelMoney] {
		return true, nil
	}

	for _, p := range s.people {
		if err := p.SetCreditCard(s.profiles.CreditCardNumber()); err != nil {
			return false, fmt.Errorf("credit card for %s: %w", p.Name, err)
		}
	}
	s.enriched[domain.ChannelMoney] = true
	s.logger.Info("credit cards assigned", zap.Int("count", len(s.people)))
	return true, nil
}

// workEmail builds firstname.lastname@domain. Names with nothing usable fall back to
// person<index>; repeated local parts get a numeric suffix so distinct people never
// share an address.
func workEmail(p domain.Profile, mailDomain string, index int, taken map[string]int) string {
	first, last := p.FirstName, p.LastName
	if first == "" && last == "" {
		parts := strings.Fields(p.Name)
		if len(parts) > 0 {
			first = parts[0]
			last = strings.Join(parts[1:], "")
		}
	}

	local := emailPart(first)
	if l := emailPart(last); l != "" {
		if local != "" {
			local += "."
		}
		local += l
	}
	if local == "" {
		local = fmt.Sprintf("person%d", index)
	}

	base := local
	for taken[local] > 0 {
		taken[base]++
		local = fmt.Sprintf("%s%d", base, taken[base])
	}
	taken[local]++
	return local + "@" + strings.ToLower(mailDomain)
}

func emailPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
