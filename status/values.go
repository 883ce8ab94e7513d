package status

import (
	"sync/atomic"
	"time"
)

// MaxLabelLen bounds stored labels
const MaxLabelLen = 64

// Label is an atomically replaced string
// Zero value is the empty string
type Label struct {
	ptr atomic.Pointer[string]
}

// Store sets the label, truncating to MaxLabelLen bytes
func (l *Label) Store(val string) {
	if len(val) > MaxLabelLen {
		val = val[:MaxLabelLen]
	}
	l.ptr.Store(&val)
}

// Load returns the current label
func (l *Label) Load() string {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

// Duration is an atomically accumulated time.Duration
type Duration struct {
	ns atomic.Int64
}

// Set replaces the value
func (d *Duration) Set(v time.Duration) {
	d.ns.Store(int64(v))
}

// Add accumulates v and returns the new total
func (d *Duration) Add(v time.Duration) time.Duration {
	return time.Duration(d.ns.Add(int64(v)))
}

// Load returns the current value
func (d *Duration) Load() time.Duration {
	return time.Duration(d.ns.Load())
}
