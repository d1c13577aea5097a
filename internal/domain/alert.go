package domain

import "time"

// Severity is the canonical three-level alert severity scale.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AlertType is the canonical hazard category of an alert.
type AlertType string

const (
	TypeStorm      AlertType = "storm"
	TypeEarthquake AlertType = "earthquake"
	TypeWildfire   AlertType = "wildfire"
	TypeFlood      AlertType = "flood"
	TypeGeneral    AlertType = "general"
)

// Source feed names carried on normalized alerts.
const (
	SourceWeather  = "openweather"
	SourceRegional = "nws"
	SourceFederal  = "fema"
)

// Attribution strings shown on risk assessments and notifications.
const (
	AttributionNWS      = "National Weather Service"
	AttributionForecast = "Forecast Analysis"
	AttributionSystem   = "System Analysis"
	AttributionFEMA     = "FEMA"
)

// Alert is the canonical, source-agnostic record of a hazard event.
// Severity and Type are always one of the closed enum values; the
// normalizers never leave them empty.
type Alert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time,omitzero"`
	Severity    Severity  `json:"severity"`
	Type        AlertType `json:"type"`
	Source      string    `json:"source"`
}

// RiskLevel is the overall assessment scale. Severe is maximal.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
	RiskSevere RiskLevel = "severe"
)

// Valid reports whether the level is one of the four canonical values.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh, RiskSevere:
		return true
	}
	return false
}

// RiskAssessment is the single current overall hazard judgment. Exactly one
// assessment is active per fetch cycle; it is replaced wholesale, never
// merged. Immediate is set only by the severe ladder rule and tells the
// caller the assessment warrants an interrupt-style surface (banner, push);
// the classification itself stays pure.
type RiskAssessment struct {
	Level          RiskLevel `json:"level"`
	Message        string    `json:"message"`
	Recommendation string    `json:"recommendation,omitempty"`
	Source         string    `json:"source"`
	Immediate      bool      `json:"immediate,omitempty"`
}

// ForecastDayRisk is one day of the projected risk trend.
type ForecastDayRisk struct {
	Date          time.Time `json:"date"`
	Risk          int       `json:"risk"` // 0–100
	Justification string    `json:"justification,omitempty"`
}

// NotificationType classifies a notification for presentation.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationSuccess NotificationType = "success"
)

// Notification is an append-only record derived from a fetched alert or
// declaration. Timestamp is the creation instant, not the event instant.
// Read/unread lifecycle is owned by the downstream notification store.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	Type      NotificationType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
	Source    string           `json:"source,omitempty"`
}
