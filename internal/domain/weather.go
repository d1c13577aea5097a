package domain

import "time"

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location identifies the place a fetch cycle watches. Either ZIP or Geo
// must be set; State enables the federal declaration feed.
type Location struct {
	ZIP   string `json:"zip,omitempty"`
	Geo   *Geo   `json:"geo,omitempty"`
	State string `json:"state,omitempty"`
}

// CurrentConditions holds the observed weather at fetch time.
// Temperatures are °F, wind speeds mph.
type CurrentConditions struct {
	Temp      float64 `json:"temp"`
	WindSpeed float64 `json:"wind_speed"`
	Humidity  int     `json:"humidity"`
	Condition string  `json:"condition"` // primary weather category, e.g. "Thunderstorm"
}

// DailyForecast is one day of the forecast array.
type DailyForecast struct {
	Date        time.Time `json:"date"`
	TempDay     float64   `json:"temp_day"`
	WindSpeed   float64   `json:"wind_speed"`
	Condition   string    `json:"condition"`
	Description string    `json:"description,omitempty"`
}

// WeatherBundle is the combined result of one weather-feed fetch: resolved
// coordinates, current conditions, the daily forecast, and active alerts.
type WeatherBundle struct {
	Geo     Geo                  `json:"geo"`
	Place   string               `json:"place,omitempty"`
	Current CurrentConditions    `json:"current"`
	Days    []DailyForecast      `json:"days,omitempty"`
	Alerts  []WeatherAlertRecord `json:"alerts,omitempty"`
}

// WeatherAlertRecord is the transient alert shape from the weather feed.
// Start and End are epoch seconds; End may be zero.
type WeatherAlertRecord struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
}

// RegionalAlertRecord is the transient alert shape from the NWS point-alert
// feed, with onset/expiry already converted from ISO timestamps to epoch
// seconds by the adapter.
type RegionalAlertRecord struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	SenderName  string `json:"sender_name,omitempty"`
	Onset       int64  `json:"onset"`
	Ends        int64  `json:"ends"`
}

// Declaration is a federal disaster declaration summary. DeclarationDate is
// the ISO date string as returned by the feed; there is no end date.
type Declaration struct {
	IncidentType       string `json:"incidentType"`
	DeclarationTitle   string `json:"declarationTitle"`
	DeclarationDate    string `json:"declarationDate"`
	State              string `json:"state"`
	DeclarationSummary string `json:"declarationSummary,omitempty"`
}
