// Package metrics provides Prometheus metrics for media resolution and retrieval.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Labels stay low-cardinality: no video ids, titles or bundle names.

var (
	// RetrievalTotal counts finished retrievals by intent mode and the path taken.
	RetrievalTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytplay_retrieval_total",
		Help: "Total number of retrievals, by mode and path (direct/download/cached).",
	}, []string{"mode", "path"})

	// RetrievalFailureTotal counts retrievals that returned an error, by error category.
	RetrievalFailureTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytplay_retrieval_failure_total",
		Help: "Total number of failed retrievals, by mode and error category.",
	}, []string{"mode", "category"})

	// ProviderFailureTotal counts provider faults, including recovered ones.
	ProviderFailureTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytplay_provider_failure_total",
		Help: "Total number of provider call failures, by provider and operation.",
	}, []string{"provider", "op"})

	// CredentialAcquireTotal counts credential pool acquisitions by result.
	CredentialAcquireTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytplay_credential_acquire_total",
		Help: "Total number of credential acquisitions, by result (ok/empty/error).",
	}, []string{"result"})

	// TranscodeTotal counts transcoder runs by result.
	TranscodeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytplay_transcode_total",
		Help: "Total number of audio transcodes, by result.",
	}, []string{"result"})

	// DownloadedBytesTotal counts bytes written to the content store.
	DownloadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ytplay_downloaded_bytes_total",
		Help: "Total number of bytes downloaded into the content store.",
	})
)

// RecordRetrieval increments the retrieval counter.
func RecordRetrieval(mode, path string) {
	RetrievalTotal.WithLabelValues(mode, path).Inc()
}

// RecordRetrievalFailure increments the retrieval failure counter.
func RecordRetrievalFailure(mode, category string) {
	RetrievalFailureTotal.WithLabelValues(mode, category).Inc()
}

// RecordProviderFailure increments the provider failure counter.
func RecordProviderFailure(provider, op string) {
	ProviderFailureTotal.WithLabelValues(provider, op).Inc()
}

// RecordCredentialAcquire increments the credential acquisition counter.
func RecordCredentialAcquire(result string) {
	CredentialAcquireTotal.WithLabelValues(result).Inc()
}

// RecordTranscode increments the transcode counter.
func RecordTranscode(result string) {
	TranscodeTotal.WithLabelValues(result).Inc()
}

// AddDownloadedBytes adds n to the downloaded bytes counter.
func AddDownloadedBytes(n int64) {
	if n > 0 {
		DownloadedBytesTotal.Add(float64(n))
	}
}
