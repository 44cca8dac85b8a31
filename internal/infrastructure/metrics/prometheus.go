// Package metrics implements port.Metrics on top of the Prometheus client.
//
// Metric vectors are created lazily the first time a name is recorded. The
// label names of a metric are the sorted tag keys of that first call; later
// calls with a different tag set are dropped.
package metrics

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hapkiduki/pumpkin-price/internal/application/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config contains metrics configuration.
type Config struct {
	// Namespace prefixes every metric name
	Namespace string

	// ServiceName and Environment are attached as constant labels
	ServiceName string
	Environment string

	// Buckets are used for histograms; nil uses prometheus.DefBuckets
	Buckets []float64
}

// Prometheus records metrics into its own registry.
type Prometheus struct {
	cfg         Config
	registry    *prometheus.Registry
	constLabels prometheus.Labels

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	labelNames map[string][]string
}

// New creates a Prometheus recorder with a fresh registry that also
// exposes Go runtime and process collectors.
//
// Parameters:
//   - cfg: metrics configuration
//
// Returns:
//   - *Prometheus: the recorder
func New(cfg Config) *Prometheus {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "pumpkin-price"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "pumpkin"
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Prometheus{
		cfg:      cfg,
		registry: registry,
		constLabels: prometheus.Labels{
			"service": serviceName,
			"env":     environment,
		},
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		labelNames: make(map[string][]string),
	}
}

// Registry returns the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler returns an HTTP handler exposing the registry.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Counter implements port.Metrics.
func (p *Prometheus) Counter(name string, value float64, tags map[string]string) {
	if value < 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	labels, ok := p.labels(name, tags)
	if !ok {
		return
	}
	vec, exists := p.counters[name]
	if !exists {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   p.cfg.Namespace,
			Name:        name,
			Help:        "Counter " + name,
			ConstLabels: p.constLabels,
		}, labels)
		if err := p.registry.Register(vec); err != nil {
			return
		}
		p.counters[name] = vec
	}
	vec.With(tags).Add(value)
}

// Gauge implements port.Metrics.
func (p *Prometheus) Gauge(name string, value float64, tags map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	labels, ok := p.labels(name, tags)
	if !ok {
		return
	}
	vec, exists := p.gauges[name]
	if !exists {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   p.cfg.Namespace,
			Name:        name,
			Help:        "Gauge " + name,
			ConstLabels: p.constLabels,
		}, labels)
		if err := p.registry.Register(vec); err != nil {
			return
		}
		p.gauges[name] = vec
	}
	vec.With(tags).Set(value)
}

// Histogram implements port.Metrics.
func (p *Prometheus) Histogram(name string, value float64, tags map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	labels, ok := p.labels(name, tags)
	if !ok {
		return
	}
	vec, exists := p.histograms[name]
	if !exists {
		buckets := p.cfg.Buckets
		if buckets == nil {
			buckets = prometheus.DefBuckets
		}
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   p.cfg.Namespace,
			Name:        name,
			Help:        "Histogram " + name,
			ConstLabels: p.constLabels,
			Buckets:     buckets,
		}, labels)
		if err := p.registry.Register(vec); err != nil {
			return
		}
		p.histograms[name] = vec
	}
	vec.With(tags).Observe(value)
}

// Timing implements port.Metrics. Durations are recorded in seconds.
func (p *Prometheus) Timing(name string, duration time.Duration, tags map[string]string) {
	p.Histogram(name, duration.Seconds(), tags)
}

// labels returns the label names of name, fixing them on first use.
// It reports false when tags do not match the fixed label names.
func (p *Prometheus) labels(name string, tags map[string]string) ([]string, bool) {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	known, exists := p.labelNames[name]
	if !exists {
		p.labelNames[name] = keys
		return keys, true
	}
	if len(known) != len(keys) {
		return nil, false
	}
	for i := range known {
		if known[i] != keys[i] {
			return nil, false
		}
	}
	return known, true
}

var _ port.Metrics = (*Prometheus)(nil)
