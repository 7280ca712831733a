package oba

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	onebusaway "github.com/OneBusAway/go-sdk"
	"github.com/OneBusAway/go-sdk/option"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/metrics"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/report"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/utils"
	"github.com/getsentry/sentry-go"
	"golang.org/x/time/rate"
)

// TransitStopType is the "type" field of locations built from OBA stops.
const TransitStopType = "transit_stop"

// DefaultRequestsPerSec is used when a non-positive rate is configured.
const DefaultRequestsPerSec = 5.0

// ErrInvalidStopLocation is recorded for stops the server returns without
// usable coordinates.
var ErrInvalidStopLocation = errors.New("oba: stop has no valid location")

// StopResolver looks up transit stops on a OneBusAway server. Requests are
// rate limited so a long stop list cannot flood the server.
type StopResolver struct {
	client  *onebusaway.Client
	baseURL string
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewStopResolver returns a resolver for the server at baseURL. httpClient
// may be nil to use the SDK default.
func NewStopResolver(baseURL, apiKey string, requestsPerSec float64, httpClient *http.Client, logger *slog.Logger) *StopResolver {
	if requestsPerSec <= 0 {
		requestsPerSec = DefaultRequestsPerSec
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(1),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &StopResolver{
		client:  onebusaway.NewClient(opts...),
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), 1),
		logger:  logger,
	}
}

// Resolve looks up each stop and returns a location per resolved stop, in
// input order, with the IDs that could not be resolved. Lookup failures for
// single stops are logged and reported, not returned; the error is non-nil
// only when ctx ends before all stops were resolved.
func (r *StopResolver) Resolve(ctx context.Context, stopIDs []string) ([]models.Location, []string, error) {
	var found []models.Location
	var missing []string

	for _, id := range stopIDs {
		if err := r.limiter.Wait(ctx); err != nil {
			return found, missing, fmt.Errorf("oba: rate limiter: %w", err)
		}

		loc, err := r.resolveOne(ctx, id)
		if err != nil && ctx.Err() != nil {
			return found, missing, fmt.Errorf("oba: lookup of %s abandoned: %w", id, ctx.Err())
		}
		if err != nil {
			metrics.ObaStopLookups.WithLabelValues("error").Inc()
			r.logger.Warn("Failed to resolve transit stop", "stop_id", id, "error", err)
			report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
				Tags: utils.MakeMap("stop_id", id),
				ExtraContext: map[string]interface{}{
					"oba_base_url": r.baseURL,
				},
				Level: sentry.LevelWarning,
			})
			missing = append(missing, id)
			continue
		}
		metrics.ObaStopLookups.WithLabelValues("found").Inc()
		found = append(found, loc)
	}
	return found, missing, nil
}

func (r *StopResolver) resolveOne(ctx context.Context, stopID string) (models.Location, error) {
	response, err := r.client.Stop.Get(ctx, stopID)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to fetch stop %s: %w", stopID, err)
	}
	if response == nil {
		return models.Location{}, fmt.Errorf("empty response for stop %s", stopID)
	}

	entry := response.Data.Entry
	if !geo.IsValidLatLon(entry.Lat, entry.Lon) || (entry.Lat == 0 && entry.Lon == 0) {
		return models.Location{}, fmt.Errorf("%w: %s", ErrInvalidStopLocation, stopID)
	}

	id := entry.ID
	if id == "" {
		id = stopID
	}
	return models.NewLocationFromFields(map[string]any{
		"id":          id,
		"name":        entry.Name,
		"code":        entry.Code,
		"type":        TransitStopType,
		"coordinates": []float64{entry.Lat, entry.Lon},
	})
}

// Ping checks that the server answers the current-time endpoint and records
// the result in metrics.ObaApiStatus.
func (r *StopResolver) Ping(ctx context.Context) error {
	response, err := r.client.CurrentTime.Get(ctx)
	if err != nil {
		metrics.ObaApiStatus.WithLabelValues(r.baseURL).Set(0)
		err = fmt.Errorf("failed to ping OBA server %s: %w", r.baseURL, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			ExtraContext: map[string]interface{}{
				"oba_base_url": r.baseURL,
			},
		})
		return err
	}

	if response.Data.Entry.ReadableTime == "" {
		metrics.ObaApiStatus.WithLabelValues(r.baseURL).Set(0)
		return fmt.Errorf("OBA server %s returned an empty current time", r.baseURL)
	}
	metrics.ObaApiStatus.WithLabelValues(r.baseURL).Set(1)
	return nil
}
