package geocode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/domain"
)

// DefaultArcGISURL is the public ArcGIS World geocoding service.
const DefaultArcGISURL = "https://geocode.arcgis.com/arcgis/rest/services/World/GeocodeServer"

// ArcGISOptions configures the ArcGIS client.
type ArcGISOptions struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// ArcGIS resolves addresses with the findAddressCandidates operation and keeps the
// first candidate returned.
type ArcGIS struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

type candidatesResponse struct {
	Candidates []struct {
		Address  string          `json:"address"`
		Location domain.Location `json:"location"`
		Score    float64         `json:"score"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewArcGIS builds a client against opts.BaseURL (DefaultArcGISURL when empty).
func NewArcGIS(opts ArcGISOptions, logger *zap.Logger) *ArcGIS {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultArcGISURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")

	return &ArcGIS{httpClient: client, logger: logger}
}

func (a *ArcGIS) Resolve(ctx context.Context, address string) (domain.Location, error) {
	var result candidatesResponse
	resp, err := a.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"f":          "json",
			"singleLine": address,
		}).
		SetResult(&result).
		Get("/findAddressCandidates")
	if err != nil {
		return domain.Location{}, domain.WrapError(domain.ErrCodeGeocode, "geocode request failed", err)
	}
	if resp.IsError() {
		return domain.Location{}, domain.Errorf(domain.ErrCodeGeocode, "geocode request returned %s", resp.Status())
	}
	if result.Error != nil {
		return domain.Location{}, domain.WrapError(domain.ErrCodeGeocode, "geocode service error",
			fmt.Errorf("code %d: %s", result.Error.Code, result.Error.Message))
	}
	if len(result.Candidates) == 0 {
		return domain.Location{}, noCandidates(address)
	}

	best := result.Candidates[0]
	a.logger.Debug("address geocoded",
		zap.String("address", address),
		zap.String("match", best.Address),
		zap.Float64("score", best.Score),
		zap.Int("candidates", len(result.Candidates)),
	)
	return best.Location, nil
}
