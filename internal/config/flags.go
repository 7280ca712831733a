package config

import (
	"flag"
	"fmt"
	"math"
)

// ValidateCatalogFlags ensures that exactly one lot source is specified:
// a catalog file "--catalog-file", a remote catalog "--catalog-url", a GTFS
// zip "--gtfs-file" or a remote GTFS zip "--gtfs-url".
//
// Returns an error if none or more than one is specified, or if positional
// arguments were passed alongside a source.
func ValidateCatalogFlags(catalogFile, catalogURL, gtfsFile, gtfsURL *string) error {
	set := 0
	for _, v := range []*string{catalogFile, catalogURL, gtfsFile, gtfsURL} {
		if v != nil && *v != "" {
			set++
		}
	}
	if set == 0 {
		return fmt.Errorf("no lot source provided, one of --catalog-file, --catalog-url, --gtfs-file or --gtfs-url must be specified")
	}
	if set > 1 || len(flag.Args()) > 0 {
		return fmt.Errorf("only one of --catalog-file, --catalog-url, --gtfs-file or --gtfs-url can be specified")
	}
	return nil
}

// ValidateMaxEdgeKm rejects thresholds the graph builder cannot use.
func ValidateMaxEdgeKm(km float64) error {
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 {
		return fmt.Errorf("--max-edge-km must be a finite, non-negative number, got %v", km)
	}
	return nil
}
