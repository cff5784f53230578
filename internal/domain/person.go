package domain

import "time"

// Location is a geocoded point; X is longitude and Y latitude.
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Profile carries the identity fields produced by the profile generator.
type Profile struct {
	Name      string
	FirstName string
	LastName  string
	Company   string
	SSN       string
	Address   string
	Job       string
	Email     string
	Birthdate time.Time
}

// Person is one generated individual. Identity fields and the location are fixed at
// construction; channel attributes are write-once and transaction logs append-only.
type Person struct {
	Profile
	Location Location

	employeeNumber *int
	workEmail      string
	phoneNumber    string
	creditCard     string
	coworkers      []string

	purchases []Transaction
	emails    []Transaction
	calls     []Transaction
}

// NewPerson binds a profile to its geocoded residence.
func NewPerson(profile Profile, loc Location) *Person {
	return &Person{Profile: profile, Location: loc}
}

// NewEmployee builds a person that occupies node index number of a relationship graph.
func NewEmployee(profile Profile, loc Location, number int) *Person {
	p := NewPerson(profile, loc)
	p.employeeNumber = &number
	return p
}

// EmployeeNumber returns the graph node index, if the person was placed in a graph.
func (p *Person) EmployeeNumber() (int, bool) {
	if p.employeeNumber == nil {
		return 0, false
	}
	return *p.employeeNumber, true
}

func (p *Person) WorkEmail() string   { return p.workEmail }
func (p *Person) PhoneNumber() string { return p.phoneNumber }
func (p *Person) CreditCard() string  { return p.creditCard }

func (p *Person) HasWorkEmail() bool   { return p.workEmail != "" }
func (p *Person) HasPhoneNumber() bool { return p.phoneNumber != "" }
func (p *Person) HasCreditCard() bool  { return p.creditCard != "" }

// SetWorkEmail assigns the work email once.
func (p *Person) SetWorkEmail(v string) error {
	return setOnce(&p.workEmail, v)
}

// SetPhoneNumber assigns the phone number once.
func (p *Person) SetPhoneNumber(v string) error {
	return setOnce(&p.phoneNumber, v)
}

// SetCreditCard assigns the payment credential once.
func (p *Person) SetCreditCard(v string) error {
	return setOnce(&p.creditCard, v)
}

// SetCoworkers records the names of graph neighbours once.
func (p *Person) SetCoworkers(names []string) error {
	if p.coworkers != nil {
		return ErrAlreadySet
	}
	p.coworkers = append([]string{}, names...)
	return nil
}

// Coworkers returns a copy of the neighbour names.
func (p *Person) Coworkers() []string {
	return append([]string(nil), p.coworkers...)
}

func setOnce(field *string, v string) error {
	if *field != "" {
		return ErrAlreadySet
	}
	*field = v
	return nil
}

// Origin returns the identifier this person uses as the sender on a channel.
func (p *Person) Origin(channel Channel) string {
	switch channel {
	case ChannelMoney:
		return p.creditCard
	case ChannelEmail:
		return p.workEmail
	case ChannelPhoneCall:
		return p.phoneNumber
	}
	return ""
}

// Record appends t to the log matching its channel.
func (p *Person) Record(t Transaction) {
	switch t.Channel {
	case ChannelMoney:
		p.purchases = append(p.purchases, t)
	case ChannelEmail:
		p.emails = append(p.emails, t)
	case ChannelPhoneCall:
		p.calls = append(p.calls, t)
	}
}

// Transactions returns a copy of the log for the channel.
func (p *Person) Transactions(channel Channel) []Transaction {
	var src []Transaction
	switch channel {
	case ChannelMoney:
		src = p.purchases
	case ChannelEmail:
		src = p.emails
	case ChannelPhoneCall:
		src = p.calls
	}
	return append([]Transaction(nil), src...)
}
