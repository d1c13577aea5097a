// Package pipeline orchestrates the fetch-and-classify cycle: sequential
// source fetches, normalization, aggregation, risk classification with AI
// fallback, forecast projection, and notification emission.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/disaster-watch/internal/domain"
	"github.com/couchcryptid/disaster-watch/internal/observability"
)

// WeatherSource fetches the combined weather bundle for a location.
type WeatherSource interface {
	FetchBundle(ctx context.Context, loc domain.Location) (domain.WeatherBundle, error)
}

// DisasterSource fetches recent federal disaster declarations for a state.
type DisasterSource interface {
	RecentDeclarations(ctx context.Context, state string) ([]domain.Declaration, error)
}

// RegionalSource fetches active point alerts for a coordinate pair.
type RegionalSource interface {
	ActiveAlerts(ctx context.Context, geo domain.Geo) ([]domain.RegionalAlertRecord, error)
}

// Assessor is the AI collaborator for risk assessment and forecast
// projection. Errors from either method trigger the deterministic fallback.
type Assessor interface {
	AssessRisk(ctx context.Context, bundle domain.WeatherBundle, alerts []domain.Alert) (domain.RiskAssessment, error)
	ForecastRisk(ctx context.Context, days []domain.DailyForecast) ([]domain.ForecastDayRisk, error)
}

// NotificationSink receives the notifications emitted by a cycle.
type NotificationSink interface {
	PublishBatch(ctx context.Context, notifications []domain.Notification) error
}

// Snapshot is the complete output of one fetch cycle. Each cycle produces a
// fresh snapshot that replaces the previous one wholesale; nothing mutates
// a published snapshot in place.
type Snapshot struct {
	Location      domain.Location          `json:"location"`
	Alerts        []domain.Alert           `json:"alerts"`
	Assessment    *domain.RiskAssessment   `json:"assessment,omitempty"`
	Forecast      []domain.ForecastDayRisk `json:"forecast,omitempty"`
	Notifications []domain.Notification    `json:"notifications,omitempty"`
	FetchedAt     time.Time                `json:"fetched_at"`
}

// Options configures a Pipeline. Assessor and Sink may be nil to disable
// the AI path and notification publication respectively.
type Options struct {
	Weather  WeatherSource
	Federal  DisasterSource
	Regional RegionalSource
	Assessor Assessor
	Sink     NotificationSink

	Location   domain.Location
	Thresholds domain.Thresholds

	FetchInterval time.Duration
	SourceDelay   time.Duration

	Clock   clockwork.Clock
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Pipeline runs fetch cycles and holds the latest snapshot.
type Pipeline struct {
	opts   Options
	clock  clockwork.Clock
	latest atomic.Pointer[Snapshot]
	ready  atomic.Bool
}

// New creates a Pipeline with the given sources and observability.
func New(opts Options) *Pipeline {
	c := opts.Clock
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &Pipeline{opts: opts, clock: c}
}

// Latest returns the most recent snapshot, or nil before the first cycle.
func (p *Pipeline) Latest() *Snapshot {
	return p.latest.Load()
}

// CheckReadiness returns nil once at least one fetch cycle has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no fetch cycle has completed yet")
	}
	return nil
}

// Run executes fetch cycles until the context is cancelled: one immediately,
// then one per interval. In-flight source calls are not aborted when a new
// cycle would be due; the published snapshot is simply whichever cycle
// finished last (last-write-wins, not necessarily last-initiated-wins).
// This is a known limitation, acceptable because cycles are short relative
// to the interval.
func (p *Pipeline) Run(ctx context.Context) error {
	p.opts.Logger.Info("pipeline started",
		"fetch_interval", p.opts.FetchInterval,
		"source_delay", p.opts.SourceDelay,
	)
	p.opts.Metrics.PipelineRunning.Set(1)
	defer p.opts.Metrics.PipelineRunning.Set(0)

	for {
		snap := p.RunCycle(ctx)
		p.latest.Store(snap)
		p.ready.Store(true)

		select {
		case <-ctx.Done():
			p.opts.Logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-p.clock.After(p.opts.FetchInterval):
		}
	}
}

// RunCycle performs one complete fetch-and-classify cycle and returns the
// resulting snapshot. Sources are fetched sequentially with a pause between
// calls to respect third-party rate limits. Every source failure degrades
// to an empty contribution; a cycle never fails as a whole.
func (p *Pipeline) RunCycle(ctx context.Context) *Snapshot {
	start := time.Now()
	log := p.opts.Logger

	bundle, weatherOK := p.fetchWeather(ctx)

	weatherAlerts := make([]domain.Alert, 0, len(bundle.Alerts))
	for i, rec := range bundle.Alerts {
		weatherAlerts = append(weatherAlerts, domain.NormalizeWeatherAlert(rec, i))
	}
	p.opts.Metrics.AlertsNormalized.WithLabelValues(domain.SourceWeather).Add(float64(len(weatherAlerts)))

	p.pause(ctx)

	// The regional feed is a secondary source, queried only when the
	// primary weather feed reported no alerts for the point.
	var regionalAlerts []domain.Alert
	if len(weatherAlerts) == 0 {
		regionalAlerts = p.fetchRegional(ctx, bundle, weatherOK)
	}

	p.pause(ctx)

	declarations := p.fetchDeclarations(ctx)
	declarationAlerts := make([]domain.Alert, 0, len(declarations))
	for i, d := range declarations {
		declarationAlerts = append(declarationAlerts, domain.NormalizeDeclaration(d, i))
	}
	p.opts.Metrics.AlertsNormalized.WithLabelValues(domain.SourceFederal).Add(float64(len(declarationAlerts)))

	merged := domain.MergeAlerts(weatherAlerts, regionalAlerts, declarationAlerts)

	var today *domain.DailyForecast
	if weatherOK && len(bundle.Days) > 0 {
		today = &bundle.Days[0]
	}

	assessment := p.classify(ctx, bundle, merged, today)
	forecast := p.project(ctx, bundle.Days)

	notifications := buildNotifications(weatherAlerts, regionalAlerts, declarations)
	p.publish(ctx, notifications)

	p.opts.Metrics.FetchCycles.Inc()
	p.opts.Metrics.CycleDuration.Observe(time.Since(start).Seconds())

	log.Info("fetch cycle completed",
		"alerts", len(merged),
		"declarations", len(declarations),
		"notifications", len(notifications),
		"duration", time.Since(start),
	)

	return &Snapshot{
		Location:      p.opts.Location,
		Alerts:        merged,
		Assessment:    assessment,
		Forecast:      forecast,
		Notifications: notifications,
		FetchedAt:     time.Now().UTC(),
	}
}

// fetchWeather fetches the weather bundle. A failure is not fatal to the
// cycle; the bundle is treated as empty and the second return is false.
func (p *Pipeline) fetchWeather(ctx context.Context) (domain.WeatherBundle, bool) {
	bundle, err := p.opts.Weather.FetchBundle(ctx, p.opts.Location)
	if err != nil {
		p.opts.Logger.Warn("weather fetch failed, continuing without weather data", "error", err)
		p.opts.Metrics.SourceRequests.WithLabelValues(domain.SourceWeather, "error").Inc()
		return domain.WeatherBundle{}, false
	}
	p.opts.Metrics.SourceRequests.WithLabelValues(domain.SourceWeather, "success").Inc()
	return bundle, true
}

// fetchRegional queries the point-alert feed when coordinates are known,
// either from the resolved weather bundle or from the configured location.
func (p *Pipeline) fetchRegional(ctx context.Context, bundle domain.WeatherBundle, weatherOK bool) []domain.Alert {
	var geo domain.Geo
	switch {
	case weatherOK:
		geo = bundle.Geo
	case p.opts.Location.Geo != nil:
		geo = *p.opts.Location.Geo
	default:
		return nil
	}

	records, err := p.opts.Regional.ActiveAlerts(ctx, geo)
	if err != nil {
		p.opts.Logger.Warn("regional alert fetch failed, continuing without regional alerts", "error", err)
		p.opts.Metrics.SourceRequests.WithLabelValues(domain.SourceRegional, "error").Inc()
		return nil
	}
	p.opts.Metrics.SourceRequests.WithLabelValues(domain.SourceRegional, "success").Inc()

	alerts := make([]domain.Alert, 0, len(records))
	for i, rec := range records {
		alerts = append(alerts, domain.NormalizeRegionalAlert(rec, i))
	}
	p.opts.Metrics.AlertsNormalized.WithLabelValues(domain.SourceRegional).Add(float64(len(alerts)))
	return alerts
}

// fetchDeclarations queries the federal feed when a state is configured.
func (p *Pipeline) fetchDeclarations(ctx context.Context) []domain.Declaration {
	if p.opts.Location.State == "" {
		return nil
	}
	declarations, err := p.opts.Federal.RecentDeclarations(ctx, p.opts.Location.State)
	if err != nil {
		p.opts.Logger.Warn("declaration fetch failed, continuing without declarations", "error", err)
		p.opts.Metrics.SourceRequests.WithLabelValues(domain.SourceFederal, "error").Inc()
		return nil
	}
	p.opts.Metrics.SourceRequests.WithLabelValues(domain.SourceFederal, "success").Inc()
	return declarations
}

// classify runs the two-phase risk classification: AI collaborator first,
// deterministic ladder on any failure. A nil result means classification
// was impossible (no alerts and no forecast).
func (p *Pipeline) classify(ctx context.Context, bundle domain.WeatherBundle, alerts []domain.Alert, today *domain.DailyForecast) *domain.RiskAssessment {
	if p.opts.Assessor != nil {
		assessment, err := p.opts.Assessor.AssessRisk(ctx, bundle, alerts)
		if err == nil {
			return &assessment
		}
		p.opts.Logger.Debug("assessment collaborator unavailable, using rule ladder", "error", err)
		p.opts.Metrics.AssessFallbacks.WithLabelValues("assessment").Inc()
	}

	assessment, ok := domain.ClassifyRisk(alerts, today, p.opts.Thresholds)
	if !ok {
		return nil
	}
	return &assessment
}

// project runs the two-phase forecast projection: AI collaborator first,
// coarse keyword projector on any failure.
func (p *Pipeline) project(ctx context.Context, days []domain.DailyForecast) []domain.ForecastDayRisk {
	if p.opts.Assessor != nil && len(days) > 0 {
		risks, err := p.opts.Assessor.ForecastRisk(ctx, days)
		if err == nil {
			return risks
		}
		p.opts.Logger.Debug("forecast collaborator unavailable, using coarse projection", "error", err)
		p.opts.Metrics.AssessFallbacks.WithLabelValues("forecast").Inc()
	}
	return domain.ProjectForecast(days)
}

// buildNotifications derives notification records from everything the cycle
// fetched. Deduplication against previously emitted notifications belongs
// to the downstream store, not here.
func buildNotifications(weatherAlerts, regionalAlerts []domain.Alert, declarations []domain.Declaration) []domain.Notification {
	out := make([]domain.Notification, 0, len(weatherAlerts)+len(regionalAlerts)+len(declarations))
	for _, a := range weatherAlerts {
		out = append(out, domain.NotificationFromAlert(a))
	}
	for _, a := range regionalAlerts {
		out = append(out, domain.NotificationFromAlert(a))
	}
	for i, d := range declarations {
		out = append(out, domain.NotificationFromDeclaration(d, i))
	}
	return out
}

// publish sends the cycle's notifications to the sink, if one is configured.
func (p *Pipeline) publish(ctx context.Context, notifications []domain.Notification) {
	if p.opts.Sink == nil || len(notifications) == 0 {
		return
	}
	if err := p.opts.Sink.PublishBatch(ctx, notifications); err != nil {
		p.opts.Logger.Error("publish notifications failed", "error", err, "count", len(notifications))
		return
	}
	p.opts.Metrics.NotificationsPublished.Add(float64(len(notifications)))
}

// pause waits the configured inter-source delay, returning early on
// context cancellation.
func (p *Pipeline) pause(ctx context.Context) {
	if p.opts.SourceDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-p.clock.After(p.opts.SourceDelay):
	}
}
