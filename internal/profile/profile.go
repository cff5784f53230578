package profile

import (
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/vanshika/datafaker/internal/domain"
)

// Generator fabricates personal profile data. Implementations are not safe for
// concurrent use; a run session calls them from a single goroutine.
type Generator interface {
	Profile() domain.Profile
	DomainName() string
	PhoneNumber() string
	CreditCardNumber() string
	DateTimeBetween(start, end time.Time) time.Time
}

const (
	minAge = 18
	maxAge = 85
)

// Faker implements Generator on top of gofakeit, drawing from a caller-owned source so
// that profile data and the rest of a run share one seed.
type Faker struct {
	fake  *gofakeit.Faker
	nowFn func() time.Time
}

// New returns a Faker reading randomness from src.
func New(src rand.Source) *Faker {
	return &Faker{
		fake:  gofakeit.NewFaker(src, false),
		nowFn: time.Now,
	}
}

// WithClock overrides the time provider used to derive birthdates (used primarily in tests).
func (f *Faker) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		f.nowFn = nowFn
	}
}

func (f *Faker) Profile() domain.Profile {
	first := f.fake.FirstName()
	last := f.fake.LastName()
	now := f.nowFn().UTC()
	birth := f.fake.DateRange(now.AddDate(-maxAge, 0, 0), now.AddDate(-minAge, 0, 0))

	return domain.Profile{
		Name:      first + " " + last,
		FirstName: first,
		LastName:  last,
		Company:   f.fake.Company(),
		SSN:       f.fake.SSN(),
		Address:   f.fake.Address().Address,
		Job:       f.fake.JobTitle(),
		Email:     f.fake.Email(),
		Birthdate: time.Date(birth.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC),
	}
}

func (f *Faker) DomainName() string {
	return f.fake.DomainName()
}

func (f *Faker) PhoneNumber() string {
	return f.fake.PhoneFormatted()
}

func (f *Faker) CreditCardNumber() string {
	return f.fake.CreditCardNumber(nil)
}

// DateTimeBetween returns an instant in [start, end]; a collapsed range yields start.
func (f *Faker) DateTimeBetween(start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	return f.fake.DateRange(start, end)
}
