package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferAlertType(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		expected AlertType
	}{
		{"flood watch", "Flood Watch", TypeFlood},
		{"flash flood", "FLASH FLOOD WARNING", TypeFlood},
		{"wildfire", "Fire Weather Watch", TypeWildfire},
		{"severe thunderstorm", "Severe Thunderstorm Warning", TypeStorm},
		{"tornado", "Tornado Warning", TypeStorm},
		{"hurricane", "Hurricane Local Statement", TypeStorm},
		{"earthquake declaration", "Earthquake", TypeEarthquake},
		{"flood beats fire keyword order", "Flood After Fire", TypeFlood},
		{"unmatched", "Special Weather Statement", TypeGeneral},
		{"empty", "", TypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferAlertType(tt.event))
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback Severity
		expected Severity
	}{
		{"canonical low", "low", SeverityMedium, SeverityLow},
		{"canonical high uppercase", "HIGH", SeverityMedium, SeverityHigh},
		{"canonical medium padded", " medium ", SeverityLow, SeverityMedium},
		{"nws vocabulary falls back", "Severe", SeverityMedium, SeverityMedium},
		{"empty falls back", "", SeverityMedium, SeverityMedium},
		{"garbage falls back", "purple", SeverityHigh, SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSeverity(tt.raw, tt.fallback))
		})
	}
}

func TestNormalizeWeatherAlert(t *testing.T) {
	rec := WeatherAlertRecord{
		Event:       "Flash Flood Warning",
		Description: "Heavy rain across the area.",
		Severity:    "high",
		Start:       1714143000,
		End:         1714150000,
	}

	alert := NormalizeWeatherAlert(rec, 0)

	assert.Equal(t, "Flash Flood Warning", alert.Title)
	assert.Equal(t, "Heavy rain across the area.", alert.Description)
	assert.Equal(t, SeverityHigh, alert.Severity)
	assert.Equal(t, TypeFlood, alert.Type)
	assert.Equal(t, SourceWeather, alert.Source)
	assert.Equal(t, time.Unix(1714143000, 0).UTC(), alert.StartTime)
	assert.Equal(t, time.Unix(1714150000, 0).UTC(), alert.EndTime)
	assert.True(t, len(alert.ID) > 0)
	assert.Contains(t, alert.ID, SourceWeather+"-")
}

func TestNormalizeWeatherAlert_Defaults(t *testing.T) {
	t.Run("missing severity defaults to medium", func(t *testing.T) {
		alert := NormalizeWeatherAlert(WeatherAlertRecord{Event: "Dense Fog Advisory"}, 0)
		assert.Equal(t, SeverityMedium, alert.Severity)
		assert.Equal(t, TypeGeneral, alert.Type)
	})

	t.Run("zero end time stays absent", func(t *testing.T) {
		alert := NormalizeWeatherAlert(WeatherAlertRecord{Event: "Heat Advisory", Start: 1714143000}, 0)
		assert.True(t, alert.EndTime.IsZero())
	})
}

func TestNormalizeRegionalAlert(t *testing.T) {
	rec := RegionalAlertRecord{
		Event:       "Tornado Warning",
		Description: "Radar indicated rotation.",
		Severity:    "Extreme", // NWS vocabulary, not canonical
		SenderName:  "NWS Norman OK",
		Onset:       1714143000,
		Ends:        1714146600,
	}

	alert := NormalizeRegionalAlert(rec, 2)

	assert.Equal(t, SourceRegional, alert.Source)
	assert.Equal(t, TypeStorm, alert.Type)
	assert.Equal(t, SeverityMedium, alert.Severity, "non-canonical severity defaults to medium")
	assert.Equal(t, time.Unix(1714143000, 0).UTC(), alert.StartTime)
	assert.Equal(t, time.Unix(1714146600, 0).UTC(), alert.EndTime)
}

func TestNormalizeDeclaration(t *testing.T) {
	tests := []struct {
		name         string
		incidentType string
		expectedType AlertType
	}{
		{"fire declaration", "Fire", TypeWildfire},
		{"flood declaration", "Flood", TypeFlood},
		{"hurricane declaration", "Hurricane", TypeStorm},
		{"biological declaration", "Biological", TypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Declaration{
				IncidentType:       tt.incidentType,
				DeclarationTitle:   "DR-4999-TX",
				DeclarationDate:    "2024-04-26T00:00:00.000Z",
				State:              "TX",
				DeclarationSummary: "Major disaster declaration.",
			}

			alert := NormalizeDeclaration(d, 0)

			assert.Equal(t, SeverityHigh, alert.Severity, "declarations are always high severity")
			assert.Equal(t, tt.expectedType, alert.Type)
			assert.Equal(t, SourceFederal, alert.Source)
			assert.Equal(t, time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC), alert.StartTime)
			assert.True(t, alert.EndTime.IsZero(), "declarations carry no end time")
		})
	}
}

func TestParseDeclarationDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"rfc3339 with millis", "2024-04-26T00:00:00.000Z", time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC)},
		{"bare date", "2024-04-26", time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "yesterday", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(parseDeclarationDate(tt.input)))
		})
	}
}

func TestGenerateAlertID(t *testing.T) {
	start := time.Unix(1714143000, 0)

	t.Run("deterministic", func(t *testing.T) {
		id1 := generateAlertID(SourceWeather, 0, "Flood Watch", start)
		id2 := generateAlertID(SourceWeather, 0, "Flood Watch", start)
		assert.Equal(t, id1, id2)
	})

	t.Run("unique per index", func(t *testing.T) {
		id1 := generateAlertID(SourceWeather, 0, "Flood Watch", start)
		id2 := generateAlertID(SourceWeather, 1, "Flood Watch", start)
		require.NotEqual(t, id1, id2)
	})

	t.Run("unique per source", func(t *testing.T) {
		id1 := generateAlertID(SourceWeather, 0, "Flood Watch", start)
		id2 := generateAlertID(SourceRegional, 0, "Flood Watch", start)
		require.NotEqual(t, id1, id2)
	})
}
