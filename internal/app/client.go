package app

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/metrics"
)

// latencyTrackingRoundTripper records the latency of every outgoing request
// in metrics.OutgoingLatency, labeled by urlLabel, method and status.
type latencyTrackingRoundTripper struct {
	next http.RoundTripper
}

func (rt *latencyTrackingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := rt.next.RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	metrics.OutgoingLatency.WithLabelValues(urlLabel(req.URL), req.Method, status).Observe(duration)

	return resp, err
}

const obaAPIPrefix = "/api/where/"

// urlLabel is scheme, host and path without the query, which may hold API
// keys. OneBusAway paths carry a caller-supplied id after the method name
// ("/api/where/stop/1_100.json"), so that segment is replaced with "{id}"
// to keep one series per endpoint.
func urlLabel(u *url.URL) string {
	path := u.Path
	if i := strings.Index(path, obaAPIPrefix); i >= 0 {
		rest := path[i+len(obaAPIPrefix):]
		if j := strings.Index(rest, "/"); j >= 0 {
			path = path[:i+len(obaAPIPrefix)] + rest[:j] + "/{id}"
		}
	}
	return u.Scheme + "://" + u.Host + path
}

// NewPooledClient returns the HTTP client shared by catalog downloads, GTFS
// downloads and OneBusAway lookups.
//
// Connections are kept alive across refreshes and stop lookups, dial and
// TLS handshakes fail after 5s, and a whole request, body included, is cut
// off after timeout. GTFS bundles can be tens of megabytes, so callers that
// download them should pass a generous timeout.
func NewPooledClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	return &http.Client{
		Transport: &latencyTrackingRoundTripper{next: transport},
		Timeout:   timeout,
	}
}
