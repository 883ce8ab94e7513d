package status

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricMap_GetIsStable(t *testing.T) {
	m := NewMetricMap[atomic.Int64]()
	a := m.Get("steps")
	a.Add(2)

	assert.Same(t, a, m.Get("steps"))
	assert.Equal(t, int64(2), m.Get("steps").Load())
	assert.True(t, m.has("steps"))
	assert.False(t, m.has("other"))
	assert.Equal(t, 1, m.Count())
}

func TestMetricMap_ConcurrentGet(t *testing.T) {
	m := NewMetricMap[atomic.Int64]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Get("shared").Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1600), m.Get("shared").Load())
}

func TestMetricMap_RangeSorted(t *testing.T) {
	m := NewMetricMap[Label]()
	for _, k := range []string{"c", "a", "b"} {
		m.Get(k).Store(k)
	}
	var keys []string
	m.Range(func(k string, _ *Label) { keys = append(keys, k) })
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestLabel(t *testing.T) {
	var l Label
	assert.Equal(t, "", l.Load())

	long := make([]byte, MaxLabelLen+10)
	for i := range long {
		long[i] = 'x'
	}
	l.Store(string(long))
	assert.Len(t, l.Load(), MaxLabelLen)
}

func TestDuration(t *testing.T) {
	var d Duration
	d.Add(time.Second)
	assert.Equal(t, 3*time.Second, d.Add(2*time.Second))
	d.Set(time.Millisecond)
	assert.Equal(t, time.Millisecond, d.Load())
}

func TestRegistry_Attrs(t *testing.T) {
	r := NewRegistry()
	r.Counters.Get("steps").Store(3)
	r.Flags.Get("interrupted").Store(true)
	r.Labels.Get("phase").Store("lore-type")
	r.Durations.Get("elapsed").Set(time.Second)

	assert.Equal(t, 4, r.TotalCount())
	attrs := r.Attrs()
	got := make(map[string]string, len(attrs))
	for _, a := range attrs {
		got[a.Key] = a.Value.String()
	}
	assert.Equal(t, map[string]string{
		"steps":       "3",
		"interrupted": "true",
		"phase":       "lore-type",
		"elapsed":     "1s",
	}, got)
}
