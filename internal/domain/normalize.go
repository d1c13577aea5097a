package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// typeRule maps a keyword found in an event or incident name to a canonical
// alert type. Rules are evaluated in order; first match wins, so the table
// order is the precedence order.
type typeRule struct {
	keyword   string
	alertType AlertType
}

var typeRules = []typeRule{
	{"flood", TypeFlood},
	{"fire", TypeWildfire},
	{"storm", TypeStorm},
	{"tornado", TypeStorm},
	{"hurricane", TypeStorm},
	{"earthquake", TypeEarthquake},
}

// InferAlertType derives the canonical type from an event or incident name
// using the ordered keyword table. Unmatched names map to general.
func InferAlertType(event string) AlertType {
	lower := strings.ToLower(event)
	for _, rule := range typeRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.alertType
		}
	}
	return TypeGeneral
}

// parseSeverity accepts a source-supplied severity string when it already
// matches the canonical scale, otherwise returns the fallback.
func parseSeverity(raw string, fallback Severity) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(raw))) {
	case SeverityLow:
		return SeverityLow
	case SeverityMedium:
		return SeverityMedium
	case SeverityHigh:
		return SeverityHigh
	}
	return fallback
}

// NormalizeWeatherAlert maps a weather-feed alert into the canonical shape.
// Missing or unrecognized severity defaults to medium.
func NormalizeWeatherAlert(rec WeatherAlertRecord, index int) Alert {
	start := epochTime(rec.Start)
	return Alert{
		ID:          generateAlertID(SourceWeather, index, rec.Event, start),
		Title:       rec.Event,
		Description: rec.Description,
		StartTime:   start,
		EndTime:     epochTime(rec.End),
		Severity:    parseSeverity(rec.Severity, SeverityMedium),
		Type:        InferAlertType(rec.Event),
		Source:      SourceWeather,
	}
}

// NormalizeRegionalAlert maps an NWS point alert into the canonical shape.
// The NWS severity vocabulary ("Severe", "Moderate", ...) does not match the
// canonical scale, so it falls through to the medium default unless the feed
// happens to supply a canonical value.
func NormalizeRegionalAlert(rec RegionalAlertRecord, index int) Alert {
	start := epochTime(rec.Onset)
	return Alert{
		ID:          generateAlertID(SourceRegional, index, rec.Event, start),
		Title:       rec.Event,
		Description: rec.Description,
		StartTime:   start,
		EndTime:     epochTime(rec.Ends),
		Severity:    parseSeverity(rec.Severity, SeverityMedium),
		Type:        InferAlertType(rec.Event),
		Source:      SourceRegional,
	}
}

// NormalizeDeclaration maps a federal disaster declaration into the
// canonical shape. A declared disaster is always high severity regardless
// of its incident type, and carries no end time.
func NormalizeDeclaration(d Declaration, index int) Alert {
	start := parseDeclarationDate(d.DeclarationDate)
	return Alert{
		ID:          generateAlertID(SourceFederal, index, d.DeclarationTitle, start),
		Title:       d.DeclarationTitle,
		Description: d.DeclarationSummary,
		StartTime:   start,
		Severity:    SeverityHigh,
		Type:        InferAlertType(d.IncidentType),
		Source:      SourceFederal,
	}
}

// epochTime converts epoch seconds to UTC time, treating 0 as absent.
func epochTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// parseDeclarationDate parses the federal feed's ISO date string, which is
// sometimes a full RFC 3339 instant and sometimes a bare date.
func parseDeclarationDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// generateAlertID produces a deterministic ID from the source, feed index,
// and key fields. Including the index guarantees uniqueness per source even
// when a feed repeats the same event name and start time.
func generateAlertID(source string, index int, event string, start time.Time) string {
	input := fmt.Sprintf("%s|%d|%s|%d", source, index, event, start.Unix())
	hash := sha256.Sum256([]byte(input))
	return source + "-" + hex.EncodeToString(hash[:8])
}
