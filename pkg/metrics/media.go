package metrics

import "github.com/prometheus/client_golang/prometheus"

// MediaMetrics tracks upload processing outcomes.
type MediaMetrics struct {
	uploads    *prometheus.CounterVec
	bytesSaved prometheus.Counter
}

func NewMediaMetrics(reg prometheus.Registerer) *MediaMetrics {
	if reg == nil {
		return &MediaMetrics{}
	}
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploads_total",
		Help:      "Uploads by media type and processing result (compressed, original, fallback).",
	}, []string{"type", "result"})
	saved := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_compression_bytes_saved_total",
		Help:      "Bytes saved by image re-encoding.",
	})
	reg.MustRegister(uploads, saved)
	return &MediaMetrics{uploads: uploads, bytesSaved: saved}
}

// ObserveUpload records one stored upload.
func (m *MediaMetrics) ObserveUpload(mediaType, result string, originalSize, storedSize int64) {
	if m == nil || m.uploads == nil {
		return
	}
	m.uploads.WithLabelValues(normalizeLabel(mediaType), normalizeLabel(result)).Inc()
	if originalSize > storedSize {
		m.bytesSaved.Add(float64(originalSize - storedSize))
	}
}
