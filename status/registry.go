// Package status collects run metrics of the presentation
package status

import (
	"log/slog"
	"strconv"
	"sync/atomic"
)

// Registry is the central metrics facade
// Components cache pointers at construction and write atomics directly
type Registry struct {
	Counters  *MetricMap[atomic.Int64]
	Flags     *MetricMap[atomic.Bool]
	Labels    *MetricMap[Label]
	Durations *MetricMap[Duration]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Counters:  NewMetricMap[atomic.Int64](),
		Flags:     NewMetricMap[atomic.Bool](),
		Labels:    NewMetricMap[Label](),
		Durations: NewMetricMap[Duration](),
	}
}

// TotalCount returns the number of metrics across all kinds
func (r *Registry) TotalCount() int {
	return r.Counters.Count() + r.Flags.Count() + r.Labels.Count() + r.Durations.Count()
}

// Attrs flattens the registry into log attributes, sorted by key within each kind
func (r *Registry) Attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, r.TotalCount())
	r.Counters.Range(func(k string, v *atomic.Int64) {
		attrs = append(attrs, slog.Int64(k, v.Load()))
	})
	r.Flags.Range(func(k string, v *atomic.Bool) {
		attrs = append(attrs, slog.String(k, strconv.FormatBool(v.Load())))
	})
	r.Labels.Range(func(k string, v *Label) {
		attrs = append(attrs, slog.String(k, v.Load()))
	})
	r.Durations.Range(func(k string, v *Duration) {
		attrs = append(attrs, slog.Duration(k, v.Load()))
	})
	return attrs
}
