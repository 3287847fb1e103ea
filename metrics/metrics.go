// Package metrics exposes Prometheus collectors for the relay and the
// persisted stores. Collectors are registered once at import via promauto
// and served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProxyRequests counts relay requests by outcome
	ProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brglive_proxy_requests_total",
		Help: "Total number of relay requests by outcome",
	}, []string{"outcome"})

	// ProxyRedirects counts followed redirect hops
	ProxyRedirects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brglive_proxy_redirects_total",
		Help: "Total number of upstream redirect hops followed",
	})

	// ProxyBytesStreamed counts bytes relayed to clients in stream-through mode
	ProxyBytesStreamed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brglive_proxy_bytes_streamed_total",
		Help: "Total bytes streamed through the relay",
	})

	// PlaylistsRewritten counts playlist bodies rewritten by the relay
	PlaylistsRewritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brglive_playlists_rewritten_total",
		Help: "Total number of playlist documents rewritten",
	})

	// StoreMutations counts successful persisted mutations by store and operation
	StoreMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brglive_store_mutations_total",
		Help: "Total number of persisted store mutations",
	}, []string{"store", "operation"})

	// PersistFailures counts snapshot writes that failed
	PersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brglive_store_persist_failures_total",
		Help: "Total number of failed snapshot writes",
	}, []string{"store"})
)

// Relay request outcomes used as the ProxyRequests label value
const (
	OutcomePlaylist = "playlist"
	OutcomeStream   = "stream"
	OutcomeError    = "error"
)

// RecordProxyRequest increments the relay request counter for an outcome
func RecordProxyRequest(outcome string) {
	ProxyRequests.WithLabelValues(outcome).Inc()
}

// RecordRedirect increments the followed-redirect counter
func RecordRedirect() {
	ProxyRedirects.Inc()
}

// RecordBytesStreamed adds n to the streamed bytes counter
func RecordBytesStreamed(n int64) {
	ProxyBytesStreamed.Add(float64(n))
}

// RecordPlaylistRewritten increments the rewritten playlist counter
func RecordPlaylistRewritten() {
	PlaylistsRewritten.Inc()
}

// RecordStoreMutation increments the mutation counter for a store operation
func RecordStoreMutation(store, operation string) {
	StoreMutations.WithLabelValues(store, operation).Inc()
}

// RecordPersistFailure increments the persist failure counter for a store
func RecordPersistFailure(store string) {
	PersistFailures.WithLabelValues(store).Inc()
}
