package export

import (
	"fmt"
	"strings"

	"github.com/vanshika/datafaker/internal/domain"
)

// Field is one named cell of a row.
type Field struct {
	Key   string
	Value any
}

// Row keeps fields in construction order so that column order is stable.
type Row []Field

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the formatted value under key, or "" when the key is absent.
func (r Row) String(key string) string {
	v, ok := r.Get(key)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Keys lists the row's keys in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Kind names an exported dataset; its string form is also the file or table name.
type Kind int

const (
	KindPeople Kind = iota + 1
	KindMoney
	KindEmail
	KindPhoneCall
	KindCoworker
)

func (k Kind) String() string {
	switch k {
	case KindPeople:
		return "people"
	case KindMoney:
		return "money"
	case KindEmail:
		return "email"
	case KindPhoneCall:
		return "phonecall"
	case KindCoworker:
		return "coworker"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Channel returns the transaction channel a kind exports, if any.
func (k Kind) Channel() (domain.Channel, bool) {
	switch k {
	case KindMoney:
		return domain.ChannelMoney, true
	case KindEmail:
		return domain.ChannelEmail, true
	case KindPhoneCall:
		return domain.ChannelPhoneCall, true
	}
	return 0, false
}

// ChannelKind maps a transaction channel to its dataset.
func ChannelKind(c domain.Channel) Kind {
	switch c {
	case domain.ChannelMoney:
		return KindMoney
	case domain.ChannelEmail:
		return KindEmail
	case domain.ChannelPhoneCall:
		return KindPhoneCall
	}
	return 0
}

// ParseKind maps a dataset name back to its kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "people":
		return KindPeople, nil
	case "money":
		return KindMoney, nil
	case "email":
		return KindEmail, nil
	case "phonecall":
		return KindPhoneCall, nil
	case "coworker":
		return KindCoworker, nil
	}
	return 0, domain.Errorf(domain.ErrCodeConfiguration, "unknown dataset %q", name)
}

// Column names shared by writers and readers.
const (
	ColName           = "name"
	ColCompany        = "company"
	ColSSN            = "ssn"
	ColAddress        = "address"
	ColJob            = "job"
	ColEmail          = "email"
	ColBirthday       = "birthday"
	ColEmployeeNumber = "employee_number"
	ColWorkEmail      = "work_email"
	ColCreditCard     = "credit_card"
	ColPhoneNumber    = "phone_number"
	ColX              = "x"
	ColY              = "y"
	ColCoworker       = "coworker"

	ColOrigin          = "origin"
	ColDestination     = "destination"
	ColDate            = "date"
	ColAmount          = "amount"
	ColTransactionType = "transaction_type"
)

const birthdayLayout = "2006-01-02"

// Flatten turns the people, or one of their logs, into rows in registry order and log
// order. It never mutates its input.
func Flatten(kind Kind, people []*domain.Person) ([]Row, error) {
	switch kind {
	case KindPeople:
		rows := make([]Row, 0, len(people))
		for _, p := range people {
			rows = append(rows, PersonRow(p))
		}
		return rows, nil

	case KindCoworker:
		var rows []Row
		for _, p := range people {
			base := PersonRow(p)
			for _, name := range p.Coworkers() {
				row := make(Row, len(base), len(base)+1)
				copy(row, base)
				rows = append(rows, append(row, Field{ColCoworker, name}))
			}
		}
		return rows, nil

	case KindMoney, KindEmail, KindPhoneCall:
		channel, _ := kind.Channel()
		var rows []Row
		for _, p := range people {
			for _, t := range p.Transactions(channel) {
				rows = append(rows, TransactionRow(t))
			}
		}
		return rows, nil
	}
	return nil, domain.Errorf(domain.ErrCodeConfiguration, "unknown dataset %s", kind)
}

// PersonRow flattens a person; channel attributes that were never assigned are omitted.
func PersonRow(p *domain.Person) Row {
	row := Row{
		{ColName, p.Name},
		{ColCompany, p.Company},
		{ColSSN, p.SSN},
		{ColAddress, p.Address},
		{ColJob, p.Job},
		{ColEmail, p.Email},
		{ColBirthday, p.Birthdate.Format(birthdayLayout)},
	}
	if n, ok := p.EmployeeNumber(); ok {
		row = append(row, Field{ColEmployeeNumber, n})
	}
	if p.HasWorkEmail() {
		row = append(row, Field{ColWorkEmail, p.WorkEmail()})
	}
	if p.HasCreditCard() {
		row = append(row, Field{ColCreditCard, p.CreditCard()})
	}
	if p.HasPhoneNumber() {
		row = append(row, Field{ColPhoneNumber, p.PhoneNumber()})
	}
	return append(row, Field{ColX, p.Location.X}, Field{ColY, p.Location.Y})
}

// TransactionRow flattens a transaction. Amount is nil outside the money channel.
func TransactionRow(t domain.Transaction) Row {
	var amount any
	if t.Amount != nil {
		amount = *t.Amount
	}
	return Row{
		{ColOrigin, t.Origin},
		{ColDestination, t.Destination},
		{ColDate, t.Timestamp},
		{ColAmount, amount},
		{ColTransactionType, t.Channel.String()},
		{ColX, t.X},
		{ColY, t.Y},
	}
}
