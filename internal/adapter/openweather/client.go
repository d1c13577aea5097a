// Package openweather implements the weather source adapter: ZIP geocoding
// and the one-call bundle of current conditions, daily forecast, and active
// weather alerts.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/disaster-watch/internal/domain"
	"github.com/couchcryptid/disaster-watch/internal/observability"
)

// ErrNoCoordinates is returned when no coordinates are resolvable for a
// ZIP code. Unlike feed outages, this is a user-facing error: the watched
// location needs to be re-entered.
var ErrNoCoordinates = errors.New("no coordinates resolvable for location")

// Client fetches from the OpenWeather geocoding and one-call APIs.
// It never retries or caches responses; only geocoding lookups are cached,
// because a ZIP's coordinates do not change between cycles.
type Client struct {
	apiKey      string
	httpClient  *http.Client
	geoBaseURL  string
	dataBaseURL string
	cache       *geoCache
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewClient creates a weather feed client with a bounded-size geocoding cache.
func NewClient(apiKey string, timeout time.Duration, cacheSize int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: timeout},
		geoBaseURL:  "https://api.openweathermap.org/geo/1.0",
		dataBaseURL: "https://api.openweathermap.org/data/3.0",
		cache:       newGeoCache(cacheSize),
		metrics:     metrics,
		logger:      logger,
	}
}

// FetchBundle resolves the location to coordinates (geocoding the ZIP when
// needed) and fetches the one-call bundle for that point.
func (c *Client) FetchBundle(ctx context.Context, loc domain.Location) (domain.WeatherBundle, error) {
	var geo domain.Geo
	var place string

	switch {
	case loc.Geo != nil:
		geo = *loc.Geo
	case loc.ZIP != "":
		resolved, name, err := c.GeocodeZIP(ctx, loc.ZIP)
		if err != nil {
			return domain.WeatherBundle{}, err
		}
		geo = resolved
		place = name
	default:
		return domain.WeatherBundle{}, ErrNoCoordinates
	}

	bundle, err := c.fetchOneCall(ctx, geo)
	if err != nil {
		return domain.WeatherBundle{}, err
	}
	bundle.Place = place
	return bundle, nil
}

// GeocodeZIP converts a US ZIP code to coordinates, consulting the cache first.
func (c *Client) GeocodeZIP(ctx context.Context, zip string) (domain.Geo, string, error) {
	if entry, ok := c.cache.get(zip); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return entry.geo, entry.place, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	params := url.Values{
		"zip":   {zip + ",US"},
		"appid": {c.apiKey},
	}
	fullURL := c.geoBaseURL + "/zip?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Geo{}, "", fmt.Errorf("create geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Geo{}, "", fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Geo{}, "", fmt.Errorf("%w: zip %q", ErrNoCoordinates, zip)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Geo{}, "", fmt.Errorf("geocode API error: status %d: %s", resp.StatusCode, body)
	}

	var zr zipResponse
	if err := json.NewDecoder(resp.Body).Decode(&zr); err != nil {
		return domain.Geo{}, "", fmt.Errorf("decode geocode response: %w", err)
	}

	geo := domain.Geo{Lat: zr.Lat, Lon: zr.Lon}
	c.cache.put(zip, geoEntry{geo: geo, place: zr.Name})
	return geo, zr.Name, nil
}

// fetchOneCall fetches current conditions, the daily forecast, and active
// alerts for a coordinate pair in a single call. Units are imperial so the
// classifier thresholds (mph, °F) apply directly.
func (c *Client) fetchOneCall(ctx context.Context, geo domain.Geo) (domain.WeatherBundle, error) {
	params := url.Values{
		"lat":     {fmt.Sprintf("%.4f", geo.Lat)},
		"lon":     {fmt.Sprintf("%.4f", geo.Lon)},
		"units":   {"imperial"},
		"exclude": {"minutely,hourly"},
		"appid":   {c.apiKey},
	}
	fullURL := c.dataBaseURL + "/onecall?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.WeatherBundle{}, fmt.Errorf("create onecall request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherBundle{}, fmt.Errorf("onecall request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherBundle{}, fmt.Errorf("onecall API error: status %d: %s", resp.StatusCode, body)
	}

	var oc onecallResponse
	if err := json.NewDecoder(resp.Body).Decode(&oc); err != nil {
		return domain.WeatherBundle{}, fmt.Errorf("decode onecall response: %w", err)
	}

	return mapOneCall(geo, oc), nil
}

func mapOneCall(geo domain.Geo, oc onecallResponse) domain.WeatherBundle {
	bundle := domain.WeatherBundle{
		Geo: geo,
		Current: domain.CurrentConditions{
			Temp:      oc.Current.Temp,
			WindSpeed: oc.Current.WindSpeed,
			Humidity:  oc.Current.Humidity,
			Condition: primaryCondition(oc.Current.Weather),
		},
	}

	for _, d := range oc.Daily {
		bundle.Days = append(bundle.Days, domain.DailyForecast{
			Date:        time.Unix(d.Dt, 0).UTC(),
			TempDay:     d.Temp.Day,
			WindSpeed:   d.WindSpeed,
			Condition:   primaryCondition(d.Weather),
			Description: conditionDescription(d.Weather),
		})
	}

	for _, a := range oc.Alerts {
		bundle.Alerts = append(bundle.Alerts, domain.WeatherAlertRecord{
			Event:       a.Event,
			Description: a.Description,
			Severity:    a.Severity,
			Start:       a.Start,
			End:         a.End,
		})
	}

	return bundle
}

func primaryCondition(conditions []weatherCondition) string {
	if len(conditions) == 0 {
		return ""
	}
	return conditions[0].Main
}

func conditionDescription(conditions []weatherCondition) string {
	if len(conditions) == 0 {
		return ""
	}
	return conditions[0].Description
}

// OpenWeather API response types.

type zipResponse struct {
	Zip  string  `json:"zip"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type weatherCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type onecallResponse struct {
	Current struct {
		Temp      float64            `json:"temp"`
		Humidity  int                `json:"humidity"`
		WindSpeed float64            `json:"wind_speed"`
		Weather   []weatherCondition `json:"weather"`
	} `json:"current"`
	Daily []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Day float64 `json:"day"`
		} `json:"temp"`
		WindSpeed float64            `json:"wind_speed"`
		Weather   []weatherCondition `json:"weather"`
	} `json:"daily"`
	Alerts []struct {
		Event       string `json:"event"`
		Description string `json:"description"`
		Severity    string `json:"severity"`
		Start       int64  `json:"start"`
		End         int64  `json:"end"`
	} `json:"alerts"`
}
