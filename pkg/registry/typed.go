package registry

import (
	"fmt"

	"github.com/marmos91/dittokv/pkg/storage"
	storeerrs "github.com/marmos91/dittokv/pkg/storage/errors"
)

// Create registers a store for cfg under alias and returns it typed.
// cfg must describe K keys and V values.
func Create[K comparable, V any](r *Registry, alias string, cfg storage.StoreConfig) (storage.KeyValueStorage[K, V], error) {
	keyType, valueType := storage.TypeOf[K](), storage.TypeOf[V]()
	if cfg != nil && (cfg.KeyType() != keyType || cfg.ValueType() != valueType) {
		return nil, storeerrs.NewTypeMismatchError(alias,
			cfg.KeyType().String(), cfg.ValueType().String(),
			keyType.String(), valueType.String())
	}

	store, err := r.Create(alias, cfg)
	if err != nil {
		return nil, err
	}
	return asTyped[K, V](alias, store)
}

// Lookup returns the store under alias typed as KeyValueStorage[K, V].
// An unknown alias yields (nil, false, nil).
func Lookup[K comparable, V any](r *Registry, alias string) (storage.KeyValueStorage[K, V], bool, error) {
	store, ok, err := r.Get(alias, storage.TypeOf[K](), storage.TypeOf[V]())
	if err != nil || !ok {
		return nil, ok, err
	}
	typed, err := asTyped[K, V](alias, store)
	if err != nil {
		return nil, false, err
	}
	return typed, true, nil
}

func asTyped[K comparable, V any](alias string, store any) (storage.KeyValueStorage[K, V], error) {
	typed, ok := store.(storage.KeyValueStorage[K, V])
	if !ok {
		return nil, storeerrs.NewInvalidArgumentError(
			fmt.Sprintf("store %q of type %T is not a KeyValueStorage[%s, %s]",
				alias, store, storage.TypeOf[K](), storage.TypeOf[V]()))
	}
	return typed, nil
}
