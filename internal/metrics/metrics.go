package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnnotateRequests counts calls to the annotator, labeled by the lot
	// source that produced the destinations (request, catalog or stops).
	AnnotateRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lot_distance_annotate_requests_total",
		Help: "Number of destination lists annotated with walking distances",
	}, []string{"source"})

	// DestinationsResolved counts annotated destinations by method
	// ("path" for a graph path, "direct" for the haversine fallback).
	DestinationsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lot_distance_destinations_total",
		Help: "Number of destinations annotated, by resolution method",
	}, []string{"source", "method"})

	PathErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lot_distance_path_errors_total",
		Help: "Number of shortest-path computations that failed and fell back to the direct distance",
	}, []string{"source"})
)

var (
	GraphNodes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lot_distance_graph_nodes",
		Help:    "Number of nodes in each proximity graph",
		Buckets: prometheus.ExponentialBuckets(2, 2, 10),
	}, []string{"source"})

	GraphEdges = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lot_distance_graph_edges",
		Help:    "Number of undirected edges in each proximity graph",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"source"})

	// GraphIsolatedNodes observes nodes left without any edge after the
	// nearest-neighbor pass; only NaN coordinates or single-node graphs get here.
	GraphIsolatedNodes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lot_distance_graph_isolated_nodes",
		Help:    "Number of isolated nodes in each proximity graph",
		Buckets: []float64{0, 1, 2, 5, 10},
	}, []string{"source"})

	// DirectFallbackClusters counts direct-distance fallbacks per S2 cell,
	// which points at lots sitting outside the walkable network.
	DirectFallbackClusters = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lot_distance_direct_fallback_clusters_total",
		Help: "Number of direct-distance fallbacks, grouped by S2 cluster of the destination",
	}, []string{"cluster_id"})
)

var (
	LotsLoaded = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lot_distance_lots_loaded",
		Help: "Number of lots currently loaded, by source",
	}, []string{"source"})

	// CatalogRefreshStatus is 1 when the last catalog load succeeded and 0 otherwise.
	CatalogRefreshStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lot_distance_catalog_refresh_status",
		Help: "Status of the last lot catalog load (0 = failed, 1 = succeeded)",
	}, []string{"source"})

	// ObaApiStatus API Status (up/down)
	ObaApiStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "oba_api_status",
		Help: "Status of the OneBusAway API Server (0 = not working, 1 = working)",
	}, []string{"server_url"})

	ObaStopLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oba_stop_lookups_total",
		Help: "Number of OneBusAway stop lookups, by outcome",
	}, []string{"outcome"})
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Number of HTTP requests served",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of served HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	OutgoingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_outgoing_request_duration_seconds",
		Help:    "Latency of outgoing HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"url", "method", "status"})
)
