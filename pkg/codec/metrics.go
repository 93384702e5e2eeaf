package codec

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	operationEncode = "encode"
	operationDecode = "decode"
)

var (
	_ Codec = (*RecordCodec)(nil)
	_ Codec = (*InstrumentedCodec)(nil)
)

// InstrumentedCodec wraps a Codec and records Prometheus metrics for every call.
type InstrumentedCodec struct {
	inner Codec

	operationsTotal   *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	bytesTotal        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewInstrumentedCodec registers the codec metrics on reg and returns the
// wrapped codec. Registering twice on the same registry panics, as with any
// promauto collector.
func NewInstrumentedCodec(inner Codec, reg prometheus.Registerer) *InstrumentedCodec {
	factory := promauto.With(reg)

	return &InstrumentedCodec{
		inner: inner,

		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "derkv_codec_operations_total",
				Help: "Total number of codec operations",
			},
			[]string{"operation", "status"},
		),

		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "derkv_codec_errors_total",
				Help: "Total number of failed codec operations by error kind",
			},
			[]string{"operation", "kind"},
		),

		bytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "derkv_codec_bytes_total",
				Help: "Total number of encoded bytes produced or consumed",
			},
			[]string{"operation"},
		),

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "derkv_codec_operation_duration_seconds",
				Help:    "Codec operation duration in seconds",
				Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
			},
			[]string{"operation"},
		),
	}
}

// Encode delegates to the wrapped codec.
func (c *InstrumentedCodec) Encode(r *Record) ([]byte, error) {
	start := time.Now()
	data, err := c.inner.Encode(r)
	c.record(operationEncode, len(data), err, time.Since(start))
	return data, err
}

// Decode delegates to the wrapped codec.
func (c *InstrumentedCodec) Decode(data []byte) (*Record, error) {
	start := time.Now()
	r, err := c.inner.Decode(data)
	c.record(operationDecode, len(data), err, time.Since(start))
	return r, err
}

func (c *InstrumentedCodec) record(operation string, size int, err error, duration time.Duration) {
	status := statusSuccess
	if err != nil {
		status = statusError
		c.errorsTotal.WithLabelValues(operation, ErrorKind(err)).Inc()
	} else {
		c.bytesTotal.WithLabelValues(operation).Add(float64(size))
	}

	c.operationsTotal.WithLabelValues(operation, status).Inc()
	c.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
