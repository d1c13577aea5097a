// Package assess implements the AI assessment and AI forecast collaborators
// as an HTTP client against a configurable inference endpoint. Any failure
// or malformed response is returned as an error; the pipeline treats that
// as a signal to fall back to the deterministic path, never as a
// user-visible fault.
package assess

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/disaster-watch/internal/domain"
)

// ErrMalformed is returned when the collaborator answers 200 but the body
// does not satisfy the assessment or forecast contract.
var ErrMalformed = errors.New("malformed collaborator response")

// Client calls the inference endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an assessment client for the given endpoint base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// assessRequest is the full current-conditions payload sent for assessment.
type assessRequest struct {
	Current domain.CurrentConditions `json:"current"`
	Days    []domain.DailyForecast   `json:"days,omitempty"`
	Alerts  []domain.Alert           `json:"alerts,omitempty"`
}

// AssessRisk asks the collaborator for an overall risk assessment. The
// response is used verbatim when well formed: a valid level and a non-empty
// message.
func (c *Client) AssessRisk(ctx context.Context, bundle domain.WeatherBundle, alerts []domain.Alert) (domain.RiskAssessment, error) {
	payload := assessRequest{
		Current: bundle.Current,
		Days:    bundle.Days,
		Alerts:  alerts,
	}

	var assessment domain.RiskAssessment
	if err := c.post(ctx, "/v1/assess", payload, &assessment); err != nil {
		return domain.RiskAssessment{}, err
	}

	if !assessment.Level.Valid() || assessment.Message == "" {
		return domain.RiskAssessment{}, fmt.Errorf("%w: level %q", ErrMalformed, assessment.Level)
	}
	return assessment, nil
}

type forecastRequest struct {
	Days []domain.DailyForecast `json:"days"`
}

type forecastResponse struct {
	DailyRisks []domain.ForecastDayRisk `json:"daily_risks"`
}

// ForecastRisk asks the collaborator for a per-day risk projection. Every
// returned risk must be within [0,100] and the set non-empty, otherwise the
// result is rejected so the coarse projector takes over.
func (c *Client) ForecastRisk(ctx context.Context, days []domain.DailyForecast) ([]domain.ForecastDayRisk, error) {
	var fr forecastResponse
	if err := c.post(ctx, "/v1/forecast", forecastRequest{Days: days}, &fr); err != nil {
		return nil, err
	}

	if len(fr.DailyRisks) == 0 {
		return nil, fmt.Errorf("%w: empty daily_risks", ErrMalformed)
	}
	for _, r := range fr.DailyRisks {
		if r.Risk < 0 || r.Risk > 100 {
			return nil, fmt.Errorf("%w: risk %d out of range", ErrMalformed, r.Risk)
		}
	}
	return fr.DailyRisks, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("collaborator request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("collaborator error: status %d: %s", resp.StatusCode, respBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
