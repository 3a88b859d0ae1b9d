package dataprocessing

import (
	"revxcli/pkg/contracts/domain"
)

// Filter narrows an enriched row set by broker, rating tag, and
// per-metric flag. A nil/empty slice means "no restriction" for that
// facet.
type Filter struct {
	Brokers     []string
	PickedTypes []string

	// Flags restricts per metric; a metric absent from the map is
	// unrestricted.
	Flags map[domain.Metric][]domain.BeatFlag
}

// Match reports whether the row passes every facet of the filter.
func (f Filter) Match(row domain.EnrichedRow) bool {
	if len(f.Brokers) > 0 && !containsString(f.Brokers, row.Broker) {
		return false
	}
	if len(f.PickedTypes) > 0 && !containsString(f.PickedTypes, row.PickedType) {
		return false
	}
	for m, allowed := range f.Flags {
		if len(allowed) > 0 && !containsFlag(allowed, row.Flag(m)) {
			return false
		}
	}
	return true
}

// FilterRows returns the rows passing the filter, input order preserved.
// The input slice is never mutated.
func FilterRows(rows []domain.EnrichedRow, f Filter) []domain.EnrichedRow {
	filtered := make([]domain.EnrichedRow, 0, len(rows))
	for _, row := range rows {
		if f.Match(row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsFlag(haystack []domain.BeatFlag, needle domain.BeatFlag) bool {
	for _, f := range haystack {
		if f == needle {
			return true
		}
	}
	return false
}
