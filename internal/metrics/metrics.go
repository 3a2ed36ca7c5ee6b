package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one process. Use New with a fresh
// registry in tests.
type Metrics struct {
	gatherer prometheus.Gatherer

	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Imports         *prometheus.CounterVec
	ImportRows      prometheus.Counter
	ImportWarnings  prometheus.Counter
}

func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		Imports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imports_total",
				Help: "Quiz imports by row source and outcome",
			},
			[]string{"source", "outcome"},
		),
		ImportRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Question rows turned into quiz questions",
		}),
		ImportWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "import_warnings_total",
			Help: "Tolerated input problems reported while building quizzes",
		}),
	}
	reg.MustRegister(m.RequestCounter, m.RequestDuration, m.Imports, m.ImportRows, m.ImportWarnings)
	return m
}

// ObserveImport records one finished import. A nil receiver is a no-op.
func (m *Metrics) ObserveImport(source, outcome string, rows, warnings int) {
	if m == nil {
		return
	}
	m.Imports.WithLabelValues(source, outcome).Inc()
	m.ImportRows.Add(float64(rows))
	m.ImportWarnings.Add(float64(warnings))
}

// Middleware counts requests by chi route pattern so ids in paths do not
// explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			endpoint = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
