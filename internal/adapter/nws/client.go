// Package nws implements the regional point-alert feed adapter against the
// National Weather Service API. It is the secondary alert source, queried
// when the primary weather feed returns no alerts.
package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/disaster-watch/internal/domain"
)

// The NWS API requires an identifying User-Agent on every request.
const userAgent = "disaster-watch (github.com/couchcryptid/disaster-watch)"

// Client fetches active alerts for a coordinate point.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an NWS point-alert client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://api.weather.gov",
		logger:     logger,
	}
}

// ActiveAlerts returns the active alerts covering the point, with onset and
// expiry converted from the feed's ISO timestamps to epoch seconds. Onset
// falls back to the effective time, expiry to the expires time.
func (c *Client) ActiveAlerts(ctx context.Context, geo domain.Geo) ([]domain.RegionalAlertRecord, error) {
	fullURL := fmt.Sprintf("%s/alerts/active?point=%.4f,%.4f", c.baseURL, geo.Lat, geo.Lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create alerts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alerts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("nws API error: status %d: %s", resp.StatusCode, body)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode alerts response: %w", err)
	}

	records := make([]domain.RegionalAlertRecord, 0, len(fc.Features))
	for _, f := range fc.Features {
		p := f.Properties
		records = append(records, domain.RegionalAlertRecord{
			Event:       p.Event,
			Description: p.Description,
			Severity:    p.Severity,
			SenderName:  p.SenderName,
			Onset:       isoToEpoch(p.Onset, p.Effective),
			Ends:        isoToEpoch(p.Ends, p.Expires),
		})
	}
	return records, nil
}

// isoToEpoch parses the first parsable ISO timestamp among the candidates,
// returning 0 when none parses.
func isoToEpoch(candidates ...string) int64 {
	for _, s := range candidates {
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Unix()
		}
	}
	return 0
}

// NWS GeoJSON response types.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
}

type properties struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Onset       string `json:"onset"`
	Effective   string `json:"effective"`
	Ends        string `json:"ends"`
	Expires     string `json:"expires"`
	SenderName  string `json:"senderName"`
}
