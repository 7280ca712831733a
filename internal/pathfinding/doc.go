// Package pathfinding estimates walking distances from a user to candidate
// parking lots.
//
// It builds a proximity graph over the source and destination coordinates
// (an undirected graph whose edges join points within a threshold distance,
// weighted by haversine distance), runs Dijkstra from the source to each
// destination and annotates every destination with the result. When no path
// exists, or the computation fails for a destination, the direct haversine
// distance is used instead and the label carries a "(direct)" suffix.
//
// Node 0 of every graph is the source; node i+1 is destinations[i].
//
// Each call builds its own graph and scratch state, so Annotate is safe for
// concurrent use without locking.
//
// Example:
//
//	src := geo.Coordinate{Lat: 40.9148, Lng: -73.1215}
//	lots := []models.Location{models.MustLocation(`{"name":"Lot 40","coordinates":[40.9151,-73.123]}`)}
//	annotated := pathfinding.Annotate(&src, lots)
//	fmt.Println(annotated[0].DistanceLabel()) // 0.1 miles
package pathfinding
