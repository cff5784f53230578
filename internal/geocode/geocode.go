package geocode

import (
	"context"
	"strings"

	"github.com/vanshika/datafaker/internal/domain"
)

// Geocoder resolves a free-text address into coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (domain.Location, error)
}

// Func adapts an ordinary function to the Geocoder interface.
type Func func(ctx context.Context, address string) (domain.Location, error)

func (f Func) Resolve(ctx context.Context, address string) (domain.Location, error) {
	return f(ctx, address)
}

func noCandidates(address string) error {
	return domain.Errorf(domain.ErrCodeGeocode, "no geocode candidate for address %q", address)
}

// normalizeAddress lowercases and collapses whitespace so that trivially different
// spellings of an address share a cache entry and an offline coordinate.
func normalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
