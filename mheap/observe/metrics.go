package observe

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/multiheap/mheap"
)

// Metrics exports heap and arena growth as Prometheus metrics.
type Metrics struct {
	heaps       prometheus.Counter
	arenas      *prometheus.CounterVec
	mappedBytes *prometheus.GaugeVec
	heapInfo    *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		heaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multiheap",
			Name:      "heaps_registered_total",
			Help:      "Number of heaps registered in the directory.",
		}),
		arenas: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "multiheap",
			Name:      "arenas_grown_total",
			Help:      "Number of arenas created, per heap.",
		}, []string{"heap"}),
		mappedBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "multiheap",
			Name:      "arena_mapped_bytes",
			Help:      "Bytes of region mapped by arenas, per heap.",
		}, []string{"heap"}),
		heapInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "multiheap",
			Name:      "heap_info",
			Help:      "Constant 1 per registered heap, labelled with its name.",
		}, []string{"heap", "name"}),
	}
	if reg != nil {
		reg.MustRegister(m.heaps, m.arenas, m.mappedBytes, m.heapInfo)
	}
	return m
}

// HeapRegistered counts the heap and publishes its name in heap_info.
func (m *Metrics) HeapRegistered(name string, id mheap.ID) {
	m.heaps.Inc()
	m.heapInfo.WithLabelValues(heapLabel(id), name).Set(1)
}

// ArenaGrown counts the arena and adds its size to the mapped bytes of the heap.
func (m *Metrics) ArenaGrown(id mheap.ID, _ uintptr, size int) {
	l := heapLabel(id)
	m.arenas.WithLabelValues(l).Inc()
	m.mappedBytes.WithLabelValues(l).Add(float64(size))
}

func heapLabel(id mheap.ID) string {
	return strconv.FormatInt(int64(id), 10)
}
