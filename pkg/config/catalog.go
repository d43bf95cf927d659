package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/marmos91/dittokv/pkg/metrics"
	"github.com/marmos91/dittokv/pkg/storage"
	"github.com/marmos91/dittokv/pkg/storage/codec"
	"github.com/marmos91/dittokv/pkg/storage/heap"
	"github.com/marmos91/dittokv/pkg/storage/listener"
	"github.com/marmos91/dittokv/pkg/storage/stripe"
	"github.com/mitchellh/mapstructure"
)

// KeyTypes lists the key type names accepted in store configurations.
// []byte is not comparable, so "bytes" is a value type only.
var KeyTypes = []string{"string", "int", "int32", "int64", "uint64", "float64", "bool", "any"}

// ValueTypes lists the value type names accepted in store configurations.
var ValueTypes = []string{"string", "int", "int32", "int64", "uint64", "float64", "bool", "bytes", "any"}

// Listener names accepted in store configurations.
const (
	ListenerLogging = "logging"
	ListenerMetrics = "metrics"
)

// Hasher names accepted in heap options.
const (
	HasherMaphash = "maphash"
	HasherXXHash  = "xxhash"
)

// Serializer names accepted in heap options.
const (
	SerializerXDR   = "xdr"
	SerializerYAML  = "yaml"
	SerializerBytes = "bytes"
)

// HeapOptions are the heap tier options of a store, decoded from the
// free-form heap section of a StoreConfig.
type HeapOptions struct {
	// Concurrency is the requested number of lock stripes (0 keeps the default)
	Concurrency int `mapstructure:"concurrency"`

	// Hasher selects the stripe hash: maphash (default) or xxhash (string keys only)
	Hasher string `mapstructure:"hasher"`

	// KeySerializer registers a key serializer: xdr or yaml
	KeySerializer string `mapstructure:"key_serializer"`

	// ValueSerializer registers a value serializer: xdr, yaml, or bytes (bytes values only)
	ValueSerializer string `mapstructure:"value_serializer"`
}

// StoreDeps carries the shared collaborators listeners are built with.
type StoreDeps struct {
	// Metrics receives mutation counts from "metrics" listeners. A nil value
	// turns them into no-ops.
	Metrics *metrics.StorageMetrics
}

// DecodeHeapOptions decodes and checks a free-form heap option map.
// Unknown keys are rejected.
func DecodeHeapOptions(raw map[string]any) (HeapOptions, error) {
	var opts HeapOptions
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(raw); err != nil {
		return opts, fmt.Errorf("invalid heap options: %w", err)
	}

	if opts.Concurrency < 0 {
		return opts, fmt.Errorf("invalid heap options: concurrency must not be negative, got %d", opts.Concurrency)
	}
	if opts.Concurrency > stripe.MaxStripes {
		return opts, fmt.Errorf("invalid heap options: concurrency must not exceed %d, got %d", stripe.MaxStripes, opts.Concurrency)
	}
	switch opts.Hasher {
	case "", HasherMaphash, HasherXXHash:
	default:
		return opts, fmt.Errorf("invalid heap options: unknown hasher %q", opts.Hasher)
	}
	for _, name := range []string{opts.KeySerializer, opts.ValueSerializer} {
		switch name {
		case "", SerializerXDR, SerializerYAML, SerializerBytes:
		default:
			return opts, fmt.Errorf("invalid heap options: unknown serializer %q", name)
		}
	}

	return opts, nil
}

// BuildStoreConfigs turns every configured store into a typed heap store
// configuration, keyed by alias.
func BuildStoreConfigs(cfg *Config, deps StoreDeps) (map[string]storage.StoreConfig, error) {
	out := make(map[string]storage.StoreConfig, len(cfg.Stores))
	for _, alias := range slices.Sorted(maps.Keys(cfg.Stores)) {
		sc, err := BuildStoreConfig(alias, cfg.Stores[alias], deps)
		if err != nil {
			return nil, err
		}
		out[alias] = sc
	}
	return out, nil
}

// BuildStoreConfig resolves the type names, listeners and heap options of a
// single store into a heap.Config of the matching key and value types.
func BuildStoreConfig(alias string, sc StoreConfig, deps StoreDeps) (storage.StoreConfig, error) {
	opts, err := DecodeHeapOptions(sc.Heap)
	if err != nil {
		return nil, fmt.Errorf("store %q: %w", alias, err)
	}

	b := builder{alias: alias, store: sc, heap: opts, deps: deps}

	switch sc.KeyType {
	case "string":
		return withKey[string](b)
	case "int":
		return withKey[int](b)
	case "int32":
		return withKey[int32](b)
	case "int64":
		return withKey[int64](b)
	case "uint64":
		return withKey[uint64](b)
	case "float64":
		return withKey[float64](b)
	case "bool":
		return withKey[bool](b)
	case "any":
		return withKey[any](b)
	default:
		return nil, fmt.Errorf("store %q: unknown key type %q", alias, sc.KeyType)
	}
}

type builder struct {
	alias string
	store StoreConfig
	heap  HeapOptions
	deps  StoreDeps
}

func withKey[K comparable](b builder) (storage.StoreConfig, error) {
	switch b.store.ValueType {
	case "string":
		return newHeapConfig[K, string](b)
	case "int":
		return newHeapConfig[K, int](b)
	case "int32":
		return newHeapConfig[K, int32](b)
	case "int64":
		return newHeapConfig[K, int64](b)
	case "uint64":
		return newHeapConfig[K, uint64](b)
	case "float64":
		return newHeapConfig[K, float64](b)
	case "bool":
		return newHeapConfig[K, bool](b)
	case "bytes":
		return newHeapConfig[K, []byte](b)
	case "any":
		return newHeapConfig[K, any](b)
	default:
		return nil, fmt.Errorf("store %q: unknown value type %q", b.alias, b.store.ValueType)
	}
}

func newHeapConfig[K comparable, V any](b builder) (storage.StoreConfig, error) {
	var opts []heap.Option

	if b.heap.Concurrency > 0 {
		opts = append(opts, heap.WithConcurrency(b.heap.Concurrency))
	}

	if b.heap.Hasher == HasherXXHash {
		hash, ok := any(stripe.HashString).(func(K) uint32)
		if !ok {
			return nil, fmt.Errorf("store %q: hasher %q requires string keys, got %s",
				b.alias, HasherXXHash, b.store.KeyType)
		}
		opts = append(opts, heap.WithHasher(hash))
	}

	if b.heap.KeySerializer != "" {
		ser, err := serializerFor[K](b.heap.KeySerializer, b.store.KeyType)
		if err != nil {
			return nil, fmt.Errorf("store %q: key serializer: %w", b.alias, err)
		}
		opts = append(opts, heap.WithKeySerializer(ser))
	}
	if b.heap.ValueSerializer != "" {
		ser, err := serializerFor[V](b.heap.ValueSerializer, b.store.ValueType)
		if err != nil {
			return nil, fmt.Errorf("store %q: value serializer: %w", b.alias, err)
		}
		opts = append(opts, heap.WithValueSerializer(ser))
	}

	for _, name := range b.store.Listeners {
		switch name {
		case ListenerLogging:
			opts = append(opts, heap.WithListeners[K, V](listener.NewLogging[K, V](b.alias)))
		case ListenerMetrics:
			opts = append(opts, heap.WithListeners[K, V](listener.NewMetrics[K, V](b.alias, b.deps.Metrics)))
		default:
			return nil, fmt.Errorf("store %q: unknown listener %q", b.alias, name)
		}
	}

	return heap.NewConfig[K, V](opts...), nil
}

func serializerFor[T any](name, typeName string) (storage.Serializer[T], error) {
	switch name {
	case SerializerYAML:
		return codec.YAML[T]{}, nil
	case SerializerXDR:
		// XDR has no encoding for interface values
		if typeName == "any" {
			return nil, fmt.Errorf("%q cannot encode type %s", name, typeName)
		}
		return codec.XDR[T]{}, nil
	case SerializerBytes:
		ser, ok := any(codec.Bytes{}).(storage.Serializer[T])
		if !ok {
			return nil, fmt.Errorf("%q cannot encode type %s", name, typeName)
		}
		return ser, nil
	default:
		return nil, fmt.Errorf("unknown serializer %q", name)
	}
}
