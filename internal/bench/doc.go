// Package bench drives the index microbenchmark.
//
// A Runner prepopulates the chosen implementation with a fixed key
// range single-threaded, then launches writer, reader, and eraser
// workers that hammer it with pseudo-random keys until a deadline.
// Writers insert fresh keys above the prepopulated range, readers
// look up keys inside it (a miss there is an invariant violation and
// aborts the run), and erasers erase keys above it. The run ends by
// ceasing to issue operations; in-flight calls are never interrupted.
//
// Results are reported per category as operations per second, tagged
// with a ULID run ID, and mirrored to Prometheus counters.
package bench
