package logger

import (
	"log/slog"
)

// Standard field keys. Use them consistently so logs can be queried by field.
const (
	KeyTraceID   = "trace_id"
	KeySpanID    = "span_id"
	KeyRequestID = "request_id"

	// Storage
	KeyAlias     = "alias"
	KeyKeyType   = "key_type"
	KeyValueType = "value_type"
	KeyTier      = "tier"
	KeyStores    = "stores"
	KeyEntries   = "entries"
	KeyStripes   = "stripes"
	KeyMetadata  = "metadata"
	KeyKey       = "key"

	// Lifecycle
	KeyState      = "state"
	KeyOperation  = "operation"
	KeyDurationMs = "duration_ms"
	KeyError      = "error"

	// HTTP
	KeyMethod = "method"
	KeyPath   = "path"
	KeyStatus = "status"
	KeyAddr   = "addr"
)

// Alias returns a store alias attribute.
func Alias(alias string) slog.Attr {
	return slog.String(KeyAlias, alias)
}

// State returns a lifecycle state attribute.
func State(state string) slog.Attr {
	return slog.String(KeyState, state)
}

// Operation returns an operation name attribute.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Err returns an error attribute, or an empty attribute for a nil error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// DurationMs returns a duration attribute in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}
