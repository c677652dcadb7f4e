// Package match resolves a human-authored filter specification to exactly
// one catalog record.
//
// Filters come in two kinds: a literal (normalized substring) and a regex
// (NFKC-normalized pattern, compiled case-insensitively, unanchored). Both
// match against the normalized forms of a record, so a query is invariant
// to case and to full/half-width differences. Filtering is pure and
// order-preserving.
//
// Resolution applies the device filter then the port filter, in that fixed
// order, and succeeds only when exactly one record remains. Anything else
// produces a ResolutionError carrying the matched subset and the full
// catalog, as display names, so the operator can tighten the filter.
package match
