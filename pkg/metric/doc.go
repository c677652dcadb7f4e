// Package metric exposes daemon counters over a Prometheus scrape
// endpoint. All metrics live in the "notesock" namespace on a private
// registry, so importing this package never touches the global default
// registry.
package metric
