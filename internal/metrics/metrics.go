// Package metrics collects Prometheus metrics for replication, retention and
// the document store RPC surface.
package metrics

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the sync engine, trash manager and gRPC server report to.
type Recorder interface {
	RecordPush(collection, op string, ok bool)
	RecordPull(collection string, inserted, skipped int)
	RecordEvicted(n int)
	RecordRPC(method, code string, d time.Duration)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	pushes      *prometheus.CounterVec
	pulled      *prometheus.CounterVec
	evicted     prometheus.Counter
	rpcs        *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myday_push_total",
			Help: "Remote push attempts by collection, operation and result.",
		}, []string{"collection", "op", "result"}),
		pulled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myday_pull_documents_total",
			Help: "Documents seen by pull, split into inserted and skipped.",
		}, []string{"collection", "outcome"}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "myday_trash_evicted_total",
			Help: "Trashed entries permanently deleted.",
		}),
		rpcs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myday_rpc_requests_total",
			Help: "Document store RPCs by method and status code.",
		}, []string{"method", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "myday_rpc_duration_seconds",
			Help:    "Document store RPC latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(c.pushes, c.pulled, c.evicted, c.rpcs, c.rpcDuration)
	return c
}

func (c *Collector) RecordPush(collection, op string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	c.pushes.WithLabelValues(collection, op, result).Inc()
}

func (c *Collector) RecordPull(collection string, inserted, skipped int) {
	c.pulled.WithLabelValues(collection, "inserted").Add(float64(inserted))
	c.pulled.WithLabelValues(collection, "skipped").Add(float64(skipped))
}

func (c *Collector) RecordEvicted(n int) {
	c.evicted.Add(float64(n))
}

func (c *Collector) RecordRPC(method, code string, d time.Duration) {
	c.rpcs.WithLabelValues(method, code).Inc()
	c.rpcDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Nop discards all measurements.
type Nop struct{}

func (Nop) RecordPush(string, string, bool) {}
func (Nop) RecordPull(string, int, int) {}
func (Nop) RecordEvicted(int) {}
func (Nop) RecordRPC(string, string, time.Duration) {}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Sample is one non-zero series read back from a Gatherer. Histograms
// report their observation count.
type Sample struct {
	Series string
	Value  float64
}

// Snapshot gathers every non-zero counter, gauge and histogram series,
// sorted by series name, e.g. myday_push_total{collection="diaries",op="add",result="ok"}.
func Snapshot(gatherer prometheus.Gatherer) ([]Sample, error) {
	families, err := gatherer.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				v = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			if v == 0 {
				continue
			}

			var b strings.Builder
			b.WriteString(mf.GetName())
			if labels := m.GetLabel(); len(labels) > 0 {
				b.WriteByte('{')
				for i, lp := range labels {
					if i > 0 {
						b.WriteByte(',')
					}
					b.WriteString(lp.GetName())
					b.WriteString(`="`)
					b.WriteString(lp.GetValue())
					b.WriteByte('"')
				}
				b.WriteByte('}')
			}
			out = append(out, Sample{Series: b.String(), Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Series < out[j].Series })
	return out, nil
}
