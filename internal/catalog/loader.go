package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/config"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/report"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/utils"
	"github.com/getsentry/sentry-go"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotArray is returned when a catalog document is not a list of lots.
	ErrNotArray = errors.New("catalog: document is not an array")

	// ErrEmptyCatalog is returned for a catalog with no lots; an empty
	// refresh would otherwise wipe the lots being served.
	ErrEmptyCatalog = errors.New("catalog: no lots in catalog")
)

// Format is the encoding of a catalog document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// formatFor picks YAML for .yaml/.yml names or a yaml content type and JSON
// otherwise.
func formatFor(name, contentType string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	if strings.Contains(strings.ToLower(contentType), "yaml") {
		return FormatYAML
	}
	return FormatJSON
}

// Parse decodes a catalog document: an array of lot objects in JSON, or a
// sequence of mappings in YAML. Every element must be an object.
func Parse(data []byte, format Format) ([]models.Location, error) {
	var lots []models.Location
	var err error
	if format == FormatYAML {
		lots, err = parseYAML(data)
	} else {
		lots, err = parseJSON(data)
	}
	if err != nil {
		return nil, err
	}
	if len(lots) == 0 {
		return nil, ErrEmptyCatalog
	}
	return lots, nil
}

func parseJSON(data []byte) ([]models.Location, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("catalog: invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, ErrNotArray
	}

	var lots []models.Location
	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		var loc models.Location
		loc, err = models.NewLocation([]byte(value.Raw))
		if err != nil {
			err = fmt.Errorf("catalog: lot %d: %w", key.Int(), err)
			return false
		}
		lots = append(lots, loc)
		return true
	})
	if err != nil {
		return nil, err
	}
	return lots, nil
}

func parseYAML(data []byte) ([]models.Location, error) {
	var docs []map[string]any
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("catalog: invalid YAML: %w", err)
	}

	lots := make([]models.Location, 0, len(docs))
	for i, fields := range docs {
		if fields == nil {
			return nil, fmt.Errorf("catalog: lot %d: %w", i, models.ErrNotObject)
		}
		loc, err := models.NewLocationFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("catalog: lot %d: %w", i, err)
		}
		lots = append(lots, loc)
	}
	return lots, nil
}

// LoadFromFile reads a JSON or YAML catalog from disk; the extension picks
// the format.
//
// On error, it reports issues to Sentry and returns a descriptive error.
func LoadFromFile(filePath string) ([]models.Location, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		err = fmt.Errorf("failed to read catalog file: %w", err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", filePath),
			Level: sentry.LevelError,
		})
		return nil, err
	}

	lots, err := Parse(data, formatFor(filePath, ""))
	if err != nil {
		err = fmt.Errorf("failed to parse catalog file %s: %w", filePath, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", filePath),
			Level: sentry.LevelError,
		})
		return nil, err
	}
	return lots, nil
}

// LoadFromURL fetches a catalog from a remote HTTP(S) endpoint, using the
// provided client and optional basic authentication. Transport errors are
// retried through config.DoWithBackoff.
//
// Errors are reported to Sentry for observability.
func LoadFromURL(ctx context.Context, client *http.Client, url, authUser, authPass string, maxRetries int) ([]models.Location, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		err = fmt.Errorf("failed to create request: %w", err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("catalog_url", url),
			Level: sentry.LevelError,
		})
		return nil, err
	}

	if authUser != "" && authPass != "" {
		req.SetBasicAuth(authUser, authPass)
	}

	resp, err := config.DoWithBackoff(ctx, client, req, maxRetries)
	if err != nil {
		err = fmt.Errorf("failed to fetch remote catalog: %w", err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("catalog_url", url),
			Level: sentry.LevelError,
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("remote catalog returned status: %d", resp.StatusCode)
		report.ReportErrorWithSentryOptions(statusErr, report.SentryReportOptions{
			Tags:  utils.MakeMap("catalog_url", url),
			Level: sentry.LevelError,
		})
		return nil, statusErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed to read remote catalog: %w", err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("catalog_url", url),
			Level: sentry.LevelError,
		})
		return nil, err
	}

	lots, err := Parse(data, formatFor(req.URL.Path, resp.Header.Get("Content-Type")))
	if err != nil {
		err = fmt.Errorf("failed to parse remote catalog: %w", err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("catalog_url", url),
			Level: sentry.LevelError,
		})
		return nil, err
	}
	return lots, nil
}
