package config

import (
	"sync"
	"time"
)

// Config holds all the configuration settings for our application.
type Config struct {
	Port    int
	Env     string
	Version string

	// Lot sources; exactly one is set, see ValidateCatalogFlags.
	CatalogFile     string
	CatalogURL      string
	CatalogAuthUser string
	CatalogAuthPass string
	GtfsFile        string
	GtfsURL         string
	RefreshInterval time.Duration
	MaxRetries      int

	MaxEdgeKm        float64
	FullConnectivity bool

	ObaBaseURL string
	ObaAPIKey  string
	ObaRPS     float64
	// StopLookupTimeout bounds a /v1/stops/distances lookup; it must stay
	// below the server's write timeout.
	StopLookupTimeout time.Duration

	Mu           sync.RWMutex
	lotsSource   string
	lotsLoadedAt time.Time
}

// NewConfig creates a new instance of a Config struct.
func NewConfig(port int, env, version string) *Config {
	return &Config{
		Port:    port,
		Env:     env,
		Version: version,
	}
}

// MarkLotsLoaded records where the current lot set came from and when.
func (cfg *Config) MarkLotsLoaded(source string, at time.Time) {
	cfg.Mu.Lock()
	defer cfg.Mu.Unlock()
	cfg.lotsSource = source
	cfg.lotsLoadedAt = at.UTC()
}

// LotsLoaded returns the values set by the last MarkLotsLoaded call. The
// zero time means no lot set has been loaded yet.
func (cfg *Config) LotsLoaded() (string, time.Time) {
	cfg.Mu.RLock()
	defer cfg.Mu.RUnlock()
	return cfg.lotsSource, cfg.lotsLoadedAt
}

// ObaEnabled reports whether transit stop lookups are configured.
func (cfg *Config) ObaEnabled() bool {
	return cfg.ObaBaseURL != "" && cfg.ObaAPIKey != ""
}
