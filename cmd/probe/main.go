// Command probe runs a single fetch-and-classify cycle against the
// configured feeds and prints the resulting snapshot as JSON. Useful for
// verifying credentials and feed reachability without starting the service.
//
// Usage:
//
//	go run ./cmd/probe -zip 73301 -state TX
//	go run ./cmd/probe -lat 30.2672 -lon -97.7431
//
// Flags override the WATCH_* environment variables; everything else is
// read from the environment like the service itself.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/disaster-watch/internal/adapter/assess"
	"github.com/couchcryptid/disaster-watch/internal/adapter/fema"
	"github.com/couchcryptid/disaster-watch/internal/adapter/nws"
	"github.com/couchcryptid/disaster-watch/internal/adapter/openweather"
	"github.com/couchcryptid/disaster-watch/internal/config"
	"github.com/couchcryptid/disaster-watch/internal/domain"
	"github.com/couchcryptid/disaster-watch/internal/observability"
	"github.com/couchcryptid/disaster-watch/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "probe: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	zip := flag.String("zip", "", "ZIP code to probe (overrides WATCH_ZIP)")
	lat := flag.Float64("lat", 0, "latitude to probe (overrides WATCH_LAT)")
	lon := flag.Float64("lon", 0, "longitude to probe (overrides WATCH_LON)")
	state := flag.String("state", "", "two-letter state code for the federal feed (overrides WATCH_STATE)")
	timeout := flag.Duration("timeout", 60*time.Second, "overall probe timeout")
	verbose := flag.Bool("v", false, "log fetch progress to stderr")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if *zip != "" {
		cfg.Watch = domain.Location{ZIP: *zip}
	}
	if *lat != 0 || *lon != 0 {
		cfg.Watch = domain.Location{Geo: &domain.Geo{Lat: *lat, Lon: *lon}}
	}
	if *state != "" {
		cfg.Watch.State = *state
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	metrics := observability.NewMetricsForTesting()

	var assessor pipeline.Assessor
	if cfg.AssessURL != "" {
		assessor = assess.NewClient(cfg.AssessURL, cfg.AssessTimeout, logger)
	}

	p := pipeline.New(pipeline.Options{
		Weather:     openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.SourceTimeout, cfg.GeocodeCacheSize, metrics, logger),
		Federal:     fema.NewClient(cfg.SourceTimeout, cfg.DeclarationLimit, logger),
		Regional:    nws.NewClient(cfg.SourceTimeout, logger),
		Assessor:    assessor,
		Location:    cfg.Watch,
		Thresholds:  cfg.Thresholds(),
		SourceDelay: cfg.SourceDelay,
		Logger:      logger,
		Metrics:     metrics,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	snap := p.RunCycle(ctx)
	if len(snap.Alerts) == 0 && snap.Assessment == nil && len(snap.Forecast) == 0 {
		return fmt.Errorf("no data from any source for %+v", cfg.Watch)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
