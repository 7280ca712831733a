package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/config"
)

func newTestConfig() *config.Config {
	cfg := config.NewConfig(4000, "testing", "test-version")
	cfg.MaxEdgeKm = 5
	cfg.MaxRetries = 1
	return cfg
}

func newTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()

	if cfg == nil {
		cfg = newTestConfig()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := New(cfg, logger, NewPooledClient(10*time.Second), cfg.Version)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return app
}

// serve sends a request through the full middleware chain.
func serve(t *testing.T, app *Application, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	app.Routes(ctx).ServeHTTP(rr, httptest.NewRequest(method, target, reader))
	return rr
}

// setupObaServer answers stop lookups for the given stop entries, keyed by
// stop ID, and 404s everything else.
func setupObaServer(t *testing.T, stops map[string]string) *httptest.Server {
	t.Helper()

	const refs = `"references":{"agencies":[],"routes":[],"situations":[],"stopTimes":[],"stops":[],"trips":[]}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		id := strings.TrimSuffix(r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:], ".json")
		entry, ok := stops[id]
		if !strings.Contains(r.URL.Path, "/api/where/stop/") || !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"code":404,"text":"resource not found","version":2}`)
			return
		}
		fmt.Fprintf(w, `{"code":200,"currentTime":1792166400000,"text":"OK","version":2,"data":{"entry":%s,%s}}`, entry, refs)
	}))
	t.Cleanup(ts.Close)
	return ts
}
