// Package config loads and validates the server configuration.
//
// The YAML document is validated in one pass into a strongly-typed Config;
// no raw maps escape this package, so downstream components consume
// already-checked values. The channel is parsed leniently (integer, float,
// or numeric string; anything else falls back to the default) and clamped
// to 1..16. Each filter block carries exactly one of a literal name or a
// regex.
package config
