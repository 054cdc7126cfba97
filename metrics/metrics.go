package metrics

import (
	"time"

	"github.com/alextanhongpin/correlation/sync/expire"
	"github.com/prometheus/client_golang/prometheus"
)

/*

	reg := prometheus.NewRegistry()
	// Install the default prometheus collectors.
	reg.MustRegister(collectors.NewGoCollector())
	// Install the custom metrics.
	metrics.MustRegister(reg)

	// ...
	store, err := expire.New(expire.Options[string, int]{
		Recorder: metrics.NewTimeoutMapRecorder("replies"),
		// ...
	})
*/

var (
	// TimeoutMapOperations counts puts, removes, evictions and eviction hook
	// failures per map.
	TimeoutMapOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeout_map_operations_total",
			Help: "A counter of operations performed on timeout maps.",
		},
		[]string{"map", "op"},
	)

	TimeoutMapEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "timeout_map_entries",
			Help: "A gauge of entries currently held by timeout maps.",
		},
		[]string{"map"},
	)

	// TimeoutMapEvictionLag is the delay between an entry's deadline and its
	// eviction. It is bounded by the poll interval under normal load.
	TimeoutMapEvictionLag = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timeout_map_eviction_lag_seconds",
			Help:    "A histogram of the delay between deadline and eviction.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"map"},
	)

	RED = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "red",
			Help:    "RED metrics",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "action", "status"},
	)
)

// Operation labels.
const (
	OpPut        = "put"
	OpRemove     = "remove"
	OpEvict      = "evict"
	OpHookFailed = "hook_failed"
)

// Collectors returns every collector defined by this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		TimeoutMapOperations,
		TimeoutMapEntries,
		TimeoutMapEvictionLag,
		RED,
	}
}

func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(Collectors()...)
}

var _ expire.Recorder = (*TimeoutMapRecorder)(nil)

// TimeoutMapRecorder exports the activity of a single timeout map.
type TimeoutMapRecorder struct {
	put    prometheus.Counter
	remove prometheus.Counter
	evict  prometheus.Counter
	failed prometheus.Counter
	size   prometheus.Gauge
	lag    prometheus.Observer
}

func NewTimeoutMapRecorder(name string) *TimeoutMapRecorder {
	return &TimeoutMapRecorder{
		put:    TimeoutMapOperations.WithLabelValues(name, OpPut),
		remove: TimeoutMapOperations.WithLabelValues(name, OpRemove),
		evict:  TimeoutMapOperations.WithLabelValues(name, OpEvict),
		failed: TimeoutMapOperations.WithLabelValues(name, OpHookFailed),
		size:   TimeoutMapEntries.WithLabelValues(name),
		lag:    TimeoutMapEvictionLag.WithLabelValues(name),
	}
}

func (r *TimeoutMapRecorder) Put() {
	r.put.Inc()
}

func (r *TimeoutMapRecorder) Remove() {
	r.remove.Inc()
}

func (r *TimeoutMapRecorder) Evict(lag time.Duration) {
	r.evict.Inc()
	r.lag.Observe(max(lag, 0).Seconds())
}

func (r *TimeoutMapRecorder) HookFailed() {
	r.failed.Inc()
}

func (r *TimeoutMapRecorder) Size(n int) {
	r.size.Set(float64(n))
}
