package domain

import "strings"

// MaxForecastDays bounds the projected risk trend for display.
const MaxForecastDays = 7

// riskRule maps forecast condition keywords to a coarse risk score.
// Evaluated in order; first match wins.
type riskRule struct {
	keywords []string
	risk     int
}

var riskRules = []riskRule{
	{[]string{"storm", "tornado", "hurricane"}, 80},
	{[]string{"rain", "snow"}, 50},
	{[]string{"extreme", "heat", "cold"}, 70},
}

const baselineRisk = 20

// ProjectForecast maps up to the first MaxForecastDays forecast days to a
// bounded risk score per day. This is the deliberately coarse client-side
// fallback; when the AI forecast path returns a well-formed result, that
// result replaces this projection entirely.
func ProjectForecast(days []DailyForecast) []ForecastDayRisk {
	if len(days) > MaxForecastDays {
		days = days[:MaxForecastDays]
	}

	out := make([]ForecastDayRisk, 0, len(days))
	for _, day := range days {
		out = append(out, ForecastDayRisk{
			Date: day.Date,
			Risk: conditionRisk(day.Condition),
		})
	}
	return out
}

// conditionRisk scores a day's primary weather category against the
// ordered keyword table.
func conditionRisk(condition string) int {
	lower := strings.ToLower(condition)
	for _, rule := range riskRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.risk
			}
		}
	}
	return baselineRisk
}
