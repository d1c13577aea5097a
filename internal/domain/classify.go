package domain

import (
	"fmt"
	"strings"
)

// Thresholds carries the tunable constants of the fallback rule ladder.
// The defaults mirror the operational values the ladder was designed
// around; they are configuration, not derived from data.
type Thresholds struct {
	HighWindMPH  float64
	ExtremeHeatF float64
}

// DefaultThresholds returns the standard ladder constants: 25 mph wind,
// 95 °F day temperature.
func DefaultThresholds() Thresholds {
	return Thresholds{HighWindMPH: 25, ExtremeHeatF: 95}
}

// ClassifyRisk is the deterministic fallback classifier, used when the
// AI-assisted assessment path is unavailable. It evaluates a fixed priority
// ladder and the first matching rule wins:
//
//  1. severe alert (high severity or "Warning" title) → severe, immediate
//  2. forecast wind above the high-wind threshold → high
//  3. thunderstorm in today's forecast → high
//  4. day temperature above the extreme-heat threshold → medium
//  5. any remaining alert → medium advisory
//  6. nothing → low
//
// The second return is false only when classification is impossible: no
// alerts and no forecast for today. Callers should then show an empty or
// loading state rather than an assessment.
func ClassifyRisk(alerts []Alert, today *DailyForecast, th Thresholds) (RiskAssessment, bool) {
	if len(alerts) == 0 && today == nil {
		return RiskAssessment{}, false
	}

	if a, found := findSevereAlert(alerts); found {
		return RiskAssessment{
			Level:          RiskSevere,
			Message:        fmt.Sprintf("Active severe alert: %s", a.Title),
			Recommendation: severeRecommendation(a.Title),
			Source:         AttributionNWS,
			Immediate:      true,
		}, true
	}

	if today != nil {
		if today.WindSpeed > th.HighWindMPH {
			return RiskAssessment{
				Level:          RiskHigh,
				Message:        fmt.Sprintf("High winds expected today (%.0f mph).", today.WindSpeed),
				Recommendation: "Secure loose outdoor objects and prepare for possible power outages.",
				Source:         AttributionForecast,
			}, true
		}
		if strings.Contains(today.Condition, "Thunderstorm") {
			return RiskAssessment{
				Level:          RiskHigh,
				Message:        "Thunderstorms expected today.",
				Recommendation: "Stay indoors during storms and watch for localized flooding and outages.",
				Source:         AttributionForecast,
			}, true
		}
		if today.TempDay > th.ExtremeHeatF {
			return RiskAssessment{
				Level:          RiskMedium,
				Message:        fmt.Sprintf("Extreme heat expected today (%.0f°F).", today.TempDay),
				Recommendation: "Stay hydrated, limit time outdoors, and check on neighbors.",
				Source:         AttributionForecast,
			}, true
		}
	}

	if len(alerts) > 0 {
		return RiskAssessment{
			Level:          RiskMedium,
			Message:        fmt.Sprintf("Active advisory: %s.", alerts[0].Title),
			Recommendation: "Monitor local conditions for updates.",
			Source:         AttributionNWS,
		}, true
	}

	return RiskAssessment{
		Level:          RiskLow,
		Message:        "No significant threats detected.",
		Recommendation: "A good time to review your emergency plan and supplies.",
		Source:         AttributionSystem,
	}, true
}

// findSevereAlert returns the first alert that is high severity or carries
// a "Warning" title, the trigger for the severe ladder rule.
func findSevereAlert(alerts []Alert) (Alert, bool) {
	for _, a := range alerts {
		if a.Severity == SeverityHigh || strings.Contains(a.Title, "Warning") {
			return a, true
		}
	}
	return Alert{}, false
}

// severeRecommendation selects hazard-specific guidance from keywords in
// the triggering alert's title.
func severeRecommendation(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "tornado"):
		return "Take shelter immediately in a basement or interior room away from windows."
	case strings.Contains(lower, "flood"):
		return "Move to higher ground now and never drive through flooded roads."
	case strings.Contains(lower, "fire"):
		return "Prepare to evacuate and follow instructions from local authorities."
	default:
		return "Shelter in place and monitor official channels for instructions."
	}
}
