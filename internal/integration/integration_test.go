//go:build integration

package integration

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

// target is one deployment the integration tests run against. The
// configuration file holds a YAML (or JSON) list of them.
type target struct {
	Name       string   `yaml:"name"`
	ObaBaseURL string   `yaml:"oba_base_url"`
	ObaAPIKey  string   `yaml:"oba_api_key"`
	StopIDs    []string `yaml:"stop_ids"`
	GtfsURL    string   `yaml:"gtfs_url"`
}

var integrationConfig string

func init() {
	flag.StringVar(&integrationConfig, "integration-config", "", "Path to integration configuration file")
}

var integrationTargets []target

func TestMain(m *testing.M) {
	flag.Parse()

	if integrationConfig == "" {
		fmt.Fprintln(os.Stderr, "Error: -integration-config flag is required for integration tests")
		os.Exit(1)
	}

	data, err := os.ReadFile(integrationConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config file %s: %v\n", integrationConfig, err)
		os.Exit(1)
	}

	if err := yaml.Unmarshal(data, &integrationTargets); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
