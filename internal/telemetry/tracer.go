package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for storage spans.
const (
	AttrAlias      = "store.alias"
	AttrTier       = "store.tier"
	AttrKeyType    = "store.key_type"
	AttrValueType  = "store.value_type"
	AttrStoreCount = "registry.stores"
	AttrState      = "registry.state"
)

// Span names. Format: <component>.<operation>
const (
	SpanRegistryStart    = "registry.start"
	SpanRegistryCreate   = "registry.create"
	SpanRegistryShutdown = "registry.shutdown"
	SpanStoreMaterialize = "registry.materialize"
)

// Alias returns a store alias attribute.
func Alias(alias string) attribute.KeyValue {
	return attribute.String(AttrAlias, alias)
}

// Tier returns a storage tier attribute.
func Tier(tier string) attribute.KeyValue {
	return attribute.String(AttrTier, tier)
}

// StoreTypes returns the key and value type attributes of a store.
func StoreTypes(keyType, valueType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrKeyType, keyType),
		attribute.String(AttrValueType, valueType),
	}
}

// StoreCount returns a registry store count attribute.
func StoreCount(n int) attribute.KeyValue {
	return attribute.Int(AttrStoreCount, n)
}

// State returns a registry state attribute.
func State(state string) attribute.KeyValue {
	return attribute.String(AttrState, state)
}

// StartRegistrySpan starts an internal span for a registry operation.
func StartRegistrySpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}
