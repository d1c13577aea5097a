package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearDay(windSpeed, tempDay float64) *DailyForecast {
	return &DailyForecast{
		Date:      time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC),
		TempDay:   tempDay,
		WindSpeed: windSpeed,
		Condition: "Clear",
	}
}

func TestClassifyRisk_SevereAlertDominates(t *testing.T) {
	th := DefaultThresholds()

	t.Run("high severity alert", func(t *testing.T) {
		alerts := []Alert{{Title: "Flash Flood Emergency", Severity: SeverityHigh}}
		got, ok := ClassifyRisk(alerts, clearDay(5, 60), th)

		require.True(t, ok)
		assert.Equal(t, RiskSevere, got.Level)
		assert.Equal(t, AttributionNWS, got.Source)
		assert.True(t, got.Immediate)
	})

	t.Run("warning title with low severity", func(t *testing.T) {
		alerts := []Alert{{Title: "Tornado Warning", Severity: SeverityLow}}
		got, ok := ClassifyRisk(alerts, nil, th)

		require.True(t, ok)
		assert.Equal(t, RiskSevere, got.Level)
		assert.True(t, got.Immediate)
	})

	t.Run("dominates high wind forecast", func(t *testing.T) {
		alerts := []Alert{{Title: "Hurricane Warning", Severity: SeverityHigh}}
		got, ok := ClassifyRisk(alerts, clearDay(60, 100), th)

		require.True(t, ok)
		assert.Equal(t, RiskSevere, got.Level, "rule 1 beats every forecast rule")
	})
}

func TestClassifyRisk_SevereRecommendations(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name    string
		title   string
		keyword string
	}{
		{"tornado guidance", "Tornado Warning", "shelter"},
		{"flood guidance", "Flood Warning", "higher ground"},
		{"fire guidance", "Fire Warning", "evacuate"},
		{"generic guidance", "Severe Weather Warning", "Shelter in place"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyRisk([]Alert{{Title: tt.title, Severity: SeverityHigh}}, nil, th)
			require.True(t, ok)
			assert.Contains(t, got.Recommendation, tt.keyword)
		})
	}
}

func TestClassifyRisk_HighWind(t *testing.T) {
	got, ok := ClassifyRisk(nil, clearDay(30, 60), DefaultThresholds())

	require.True(t, ok)
	assert.Equal(t, RiskHigh, got.Level)
	assert.Equal(t, AttributionForecast, got.Source)
	assert.Contains(t, got.Recommendation, "outages")
	assert.False(t, got.Immediate)
}

func TestClassifyRisk_WindThresholdIsExclusive(t *testing.T) {
	got, ok := ClassifyRisk(nil, clearDay(25, 60), DefaultThresholds())

	require.True(t, ok)
	assert.Equal(t, RiskLow, got.Level, "exactly 25 mph does not trip the wind rule")
}

func TestClassifyRisk_Thunderstorm(t *testing.T) {
	today := &DailyForecast{Condition: "Thunderstorm", TempDay: 80, WindSpeed: 5}
	got, ok := ClassifyRisk(nil, today, DefaultThresholds())

	require.True(t, ok)
	assert.Equal(t, RiskHigh, got.Level, "thunderstorm outranks the heat rule")
	assert.Equal(t, AttributionForecast, got.Source)
}

func TestClassifyRisk_ExtremeHeat(t *testing.T) {
	got, ok := ClassifyRisk(nil, clearDay(5, 101), DefaultThresholds())

	require.True(t, ok)
	assert.Equal(t, RiskMedium, got.Level)
	assert.Contains(t, got.Recommendation, "hydrated")
}

func TestClassifyRisk_GenericAdvisory(t *testing.T) {
	alerts := []Alert{
		{Title: "Dense Fog Advisory", Severity: SeverityLow},
		{Title: "Frost Advisory", Severity: SeverityLow},
	}
	got, ok := ClassifyRisk(alerts, clearDay(5, 60), DefaultThresholds())

	require.True(t, ok)
	assert.Equal(t, RiskMedium, got.Level)
	assert.Contains(t, got.Message, "Dense Fog Advisory", "message echoes the first alert")
	assert.Equal(t, AttributionNWS, got.Source)
}

func TestClassifyRisk_NoSignal(t *testing.T) {
	got, ok := ClassifyRisk(nil, clearDay(5, 60), DefaultThresholds())

	require.True(t, ok)
	assert.Equal(t, RiskLow, got.Level)
	assert.Equal(t, AttributionSystem, got.Source)
	assert.Contains(t, got.Recommendation, "plan")
}

func TestClassifyRisk_ImpossibleWithoutInputs(t *testing.T) {
	_, ok := ClassifyRisk(nil, nil, DefaultThresholds())
	assert.False(t, ok, "no alerts and no forecast means no assessment")
}

func TestClassifyRisk_CustomThresholds(t *testing.T) {
	th := Thresholds{HighWindMPH: 10, ExtremeHeatF: 70}

	got, ok := ClassifyRisk(nil, clearDay(15, 60), th)
	require.True(t, ok)
	assert.Equal(t, RiskHigh, got.Level, "lowered wind threshold trips at 15 mph")

	got, ok = ClassifyRisk(nil, clearDay(5, 75), th)
	require.True(t, ok)
	assert.Equal(t, RiskMedium, got.Level, "lowered heat threshold trips at 75°F")
}
