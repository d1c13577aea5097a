package domain

import (
	"sort"
	"strings"
)

// FilterAll matches any value in a type or severity filter.
const FilterAll = "all"

// MergeAlerts concatenates per-source alert groups and sorts the result
// most-recent-first. The sort is stable, so alerts with equal start times
// keep their input order.
func MergeAlerts(groups ...[]Alert) []Alert {
	total := 0
	for _, g := range groups {
		total += len(g)
	}

	merged := make([]Alert, 0, total)
	for _, g := range groups {
		merged = append(merged, g...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartTime.After(merged[j].StartTime)
	})
	return merged
}

// AlertFilter narrows a merged alert set for presentation. Empty fields and
// the value "all" match everything.
type AlertFilter struct {
	Query    string
	Type     string
	Severity string
}

// FilterAlerts returns the alerts matching every criterion in the filter.
// The query is a case-insensitive substring match against title and
// description. The input slice is never modified, so the same merged set
// can be filtered repeatedly with different values.
func FilterAlerts(alerts []Alert, f AlertFilter) []Alert {
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		if matchesFilter(a, f) {
			out = append(out, a)
		}
	}
	return out
}

func matchesFilter(a Alert, f AlertFilter) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(a.Title), q) &&
			!strings.Contains(strings.ToLower(a.Description), q) {
			return false
		}
	}
	if f.Type != "" && f.Type != FilterAll && string(a.Type) != f.Type {
		return false
	}
	if f.Severity != "" && f.Severity != FilterAll && string(a.Severity) != f.Severity {
		return false
	}
	return true
}
