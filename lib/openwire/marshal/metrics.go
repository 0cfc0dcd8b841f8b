package marshal

import (
	"errors"

	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/VictoriaMetrics/metrics"
)

// Codec counters, exposed through metrics.WritePrometheus
var (
	tightRecordsEncoded = metrics.NewCounter(`dwire_openwire_records_encoded_total{encoding="tight"}`)
	looseRecordsEncoded = metrics.NewCounter(`dwire_openwire_records_encoded_total{encoding="loose"}`)
	tightBytesEncoded   = metrics.NewCounter(`dwire_openwire_bytes_encoded_total{encoding="tight"}`)
	looseBytesEncoded   = metrics.NewCounter(`dwire_openwire_bytes_encoded_total{encoding="loose"}`)
	tightRecordsDecoded = metrics.NewCounter(`dwire_openwire_records_decoded_total{encoding="tight"}`)
	looseRecordsDecoded = metrics.NewCounter(`dwire_openwire_records_decoded_total{encoding="loose"}`)
	tightBytesDecoded   = metrics.NewCounter(`dwire_openwire_bytes_decoded_total{encoding="tight"}`)
	looseBytesDecoded   = metrics.NewCounter(`dwire_openwire_bytes_decoded_total{encoding="loose"}`)

	encodeErrors = metrics.NewCounter(`dwire_openwire_encode_errors_total`)

	decodeErrorsMalformed    = metrics.NewCounter(`dwire_openwire_decode_errors_total{kind="malformed"}`)
	decodeErrorsUnknownType  = metrics.NewCounter(`dwire_openwire_decode_errors_total{kind="unknown_type"}`)
	decodeErrorsCacheDesync  = metrics.NewCounter(`dwire_openwire_decode_errors_total{kind="cache_desync"}`)
	decodeErrorsVersion      = metrics.NewCounter(`dwire_openwire_decode_errors_total{kind="version"}`)
	decodeErrorsTypeMismatch = metrics.NewCounter(`dwire_openwire_decode_errors_total{kind="type_mismatch"}`)
	decodeErrorsOther        = metrics.NewCounter(`dwire_openwire_decode_errors_total{kind="other"}`)

	cacheHits      = metrics.NewCounter(`dwire_openwire_cache_hits_total`)
	cacheMisses    = metrics.NewCounter(`dwire_openwire_cache_misses_total`)
	cacheEvictions = metrics.NewCounter(`dwire_openwire_cache_evictions_total`)
)

func countEncoded(tight bool, n int) {
	if tight {
		tightRecordsEncoded.Inc()
		tightBytesEncoded.Add(n)
	} else {
		looseRecordsEncoded.Inc()
		looseBytesEncoded.Add(n)
	}
}

func countDecoded(tight bool, n int) {
	if tight {
		tightRecordsDecoded.Inc()
		tightBytesDecoded.Add(n)
	} else {
		looseRecordsDecoded.Inc()
		looseBytesDecoded.Add(n)
	}
}

func countEncodeError() {
	encodeErrors.Inc()
}

// countDecodeError classifies err by its sentinel
func countDecodeError(err error) {
	switch {
	case errors.Is(err, codec.ErrUnknownTypeCode):
		decodeErrorsUnknownType.Inc()
	case errors.Is(err, codec.ErrCacheDesync):
		decodeErrorsCacheDesync.Inc()
	case errors.Is(err, codec.ErrVersionViolation):
		decodeErrorsVersion.Inc()
	case errors.Is(err, codec.ErrTypeMismatch):
		decodeErrorsTypeMismatch.Inc()
	case errors.Is(err, codec.ErrMalformedStream):
		decodeErrorsMalformed.Inc()
	default:
		decodeErrorsOther.Inc()
	}
}

func countCacheHit() {
	cacheHits.Inc()
}

func countCacheMiss(evicted bool) {
	cacheMisses.Inc()
	if evicted {
		cacheEvictions.Inc()
	}
}
