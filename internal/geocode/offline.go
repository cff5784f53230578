package geocode

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/vanshika/datafaker/internal/domain"
)

// Continental US bounding box.
const (
	minLon = -124.7
	maxLon = -67.0
	minLat = 25.1
	maxLat = 49.4
)

// Offline derives stable pseudo-coordinates from the address text. It never touches the
// network, so identical addresses always land on the same point.
type Offline struct{}

func (Offline) Resolve(ctx context.Context, address string) (domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return domain.Location{}, err
	}
	normalized := normalizeAddress(address)
	if normalized == "" {
		return domain.Location{}, noCandidates(address)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(normalized))
	sum := h.Sum64()

	lon := minLon + unit(uint32(sum))*(maxLon-minLon)
	lat := minLat + unit(uint32(sum>>32))*(maxLat-minLat)
	return domain.Location{X: round6(lon), Y: round6(lat)}, nil
}

func unit(v uint32) float64 {
	return float64(v) / float64(math.MaxUint32)
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
