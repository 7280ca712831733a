package gtfs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/config"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/report"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/utils"
	"github.com/getsentry/sentry-go"
	remoteGtfs "github.com/jamespfennell/gtfs"
)

// loadLotsFromFile reads a GTFS static zip from disk, indexes its stops in
// staticStore and returns its stop groups as locations.
func loadLotsFromFile(path string, staticStore *StaticStore) ([]models.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read GTFS bundle %s: %w", path, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", path),
			Level: sentry.LevelError,
		})
		return nil, err
	}

	lots, static, err := ParseLots(data)
	if err != nil {
		err = fmt.Errorf("failed to parse GTFS static data from %s: %w", path, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", path),
			Level: sentry.LevelError,
		})
		return nil, err
	}
	staticStore.Set(static)
	return lots, nil
}

// downloadLots fetches a GTFS static bundle from url, retrying transport
// errors with config.DoWithBackoff, then parses and indexes it like
// loadLotsFromFile.
func downloadLots(ctx context.Context, client *http.Client, url string, maxRetries int, staticStore *StaticStore) ([]models.Location, error) {
	static, err := downloadGTFSBundle(ctx, client, url, maxRetries)
	if err != nil {
		return nil, err
	}
	staticStore.Set(static)
	return LotsFromStatic(static), nil
}

func downloadGTFSBundle(ctx context.Context, client *http.Client, url string, maxRetries int) (*remoteGtfs.Static, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		err = fmt.Errorf("failed to create request for %s: %w", url, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.MakeMap("gtfs_url", url),
		})
		return nil, err
	}

	resp, err := config.DoWithBackoff(ctx, client, req, maxRetries)
	if err != nil {
		err = fmt.Errorf("failed to make GET request to %s: %w", url, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.MakeMap("gtfs_url", url),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected response status %d when downloading GTFS bundle from %s", resp.StatusCode, url)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.MakeMap("gtfs_url", url),
			ExtraContext: map[string]interface{}{
				"status": resp.Status,
			},
		})
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed to read GTFS bundle response body from %s: %w", url, err)
		report.ReportError(err)
		return nil, err
	}

	staticBundle, err := remoteGtfs.ParseStatic(data, remoteGtfs.ParseStaticOptions{})
	if err != nil {
		err = fmt.Errorf("failed to parse GTFS static data from %s: %w", url, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.MakeMap("gtfs_url", url),
		})
		return nil, err
	}
	return staticBundle, nil
}
