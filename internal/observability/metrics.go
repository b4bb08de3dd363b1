package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

// Metrics is nil-safe: every method on a nil *Metrics is a no-op, so callers
// never check whether metrics are enabled.
type Metrics struct {
	apiRequests  *CounterVec
	apiLatency   *HistogramVec
	apiInflight  *Gauge
	apiErrors    *Counter
	suggestions  *CounterVec
	suggestLat   *HistogramVec
	learnedItems *CounterVec
	activity     *CounterVec
	dbPool       *GaugeVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("mp_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"mp_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		),
		apiInflight: NewGauge("mp_api_inflight_requests", "In-flight API requests."),
		apiErrors:   NewCounter("mp_api_requests_error_total", "API requests answered with a 5xx status."),
		suggestions: NewCounterVec("mp_suggestion_requests_total", "Meal suggestion calls by mode/status.", []string{"mode", "status"}),
		suggestLat: NewHistogramVec(
			"mp_suggestion_duration_seconds",
			"Meal suggestion latency in seconds by mode.",
			[]string{"mode"},
			[]float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		),
		learnedItems: NewCounterVec("mp_preferences_learned_total", "Preference items proposed by the suggester, by kind.", []string{"kind"}),
		activity:     NewCounterVec("mp_activity_updates_total", "Last-active updates by outcome.", []string{"outcome"}),
		dbPool:       NewGaugeVec("mp_db_pool", "Database pool stats.", []string{"metric"}),
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
	if strings.HasPrefix(status, "5") {
		m.apiErrors.Inc()
	}
}

func (m *Metrics) APIInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) APIInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveSuggestion(mode, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.suggestions.Inc(mode, status)
	m.suggestLat.Observe(dur.Seconds(), mode)
}

func (m *Metrics) AddLearned(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.learnedItems.Add(float64(n), kind)
}

func (m *Metrics) IncActivity(outcome string) {
	if m != nil {
		m.activity.Inc(outcome)
	}
}

// ActivityCount reports how many updates ended with outcome.
func (m *Metrics) ActivityCount(outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.activity.Value(outcome)
}

func (m *Metrics) SuggestionCount(mode, status string) float64 {
	if m == nil {
		return 0
	}
	return m.suggestions.Value(mode, status)
}

// StartDBCollector samples the connection pool until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, every time.Duration) {
	if m == nil || db == nil {
		return
	}
	if every <= 0 {
		every = 15 * time.Second
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("db pool collector disabled", "error", err)
		}
		return
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			st := sqlDB.Stats()
			m.dbPool.Set(float64(st.OpenConnections), "open")
			m.dbPool.Set(float64(st.InUse), "in_use")
			m.dbPool.Set(float64(st.Idle), "idle")
			m.dbPool.Set(float64(st.WaitCount), "wait_count")
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiErrors,
		m.suggestions, m.suggestLat, m.learnedItems, m.activity, m.dbPool,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}
