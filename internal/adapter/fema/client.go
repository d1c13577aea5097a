// Package fema implements the federal disaster feed adapter against the
// OpenFEMA disaster declarations summaries API.
package fema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/disaster-watch/internal/domain"
)

// Client fetches recent disaster declarations for a US state. It never
// retries; a failed call surfaces to the orchestration layer, which treats
// the source as empty for the cycle.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limit      int
	logger     *slog.Logger
}

// NewClient creates an OpenFEMA client. limit caps how many declarations a
// fetch returns, newest first.
func NewClient(timeout time.Duration, limit int, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://www.fema.gov/api/open/v2",
		limit:      limit,
		logger:     logger,
	}
}

// RecentDeclarations returns the most recent declarations for the state,
// ordered by declaration date descending, capped at the configured limit.
func (c *Client) RecentDeclarations(ctx context.Context, state string) ([]domain.Declaration, error) {
	params := url.Values{
		"$filter":  {fmt.Sprintf("state eq '%s'", state)},
		"$orderby": {"declarationDate desc"},
		"$top":     {strconv.Itoa(c.limit)},
	}
	fullURL := c.baseURL + "/DisasterDeclarationsSummaries?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create declarations request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("declarations request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fema API error: status %d: %s", resp.StatusCode, body)
	}

	var dr declarationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("decode declarations response: %w", err)
	}

	// The API honors $top, but a misconfigured mirror may not; enforce the
	// cap locally so downstream consumers see a bounded set either way.
	decls := dr.DisasterDeclarationsSummaries
	if len(decls) > c.limit {
		decls = decls[:c.limit]
	}
	return decls, nil
}

type declarationsResponse struct {
	DisasterDeclarationsSummaries []domain.Declaration `json:"DisasterDeclarationsSummaries"`
}
