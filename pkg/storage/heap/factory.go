package heap

import (
	"fmt"

	"github.com/marmos91/dittokv/pkg/storage"
	storeerrs "github.com/marmos91/dittokv/pkg/storage/errors"
	"github.com/marmos91/dittokv/pkg/storage/monitoring"
)

// Tier is the name of the heap storage tier.
const Tier = "heap"

// storeBuilder is implemented by every *Config[K, V].
type storeBuilder interface {
	newStore() any
}

// Factory creates heap stores.
type Factory struct {
	resource *Resource
}

var _ storage.Factory = (*Factory)(nil)

// NewFactory returns a heap factory.
func NewFactory() *Factory {
	return &Factory{resource: NewResource()}
}

// Create builds a store from cfg. A nil cfg yields a *Storage[any, any] with
// defaults, a *Config[K, V] yields a *Storage[K, V]. Configs of other tiers
// are rejected.
func (f *Factory) Create(cfg storage.StoreConfig) (any, error) {
	if cfg == nil {
		return NewFromConfig[any, any](nil), nil
	}

	b, ok := cfg.(storeBuilder)
	if !ok {
		return nil, storeerrs.NewInvalidArgumentError(fmt.Sprintf("%T is not a heap store config", cfg))
	}
	return b.newStore(), nil
}

// Tier returns "heap".
func (f *Factory) Tier() string {
	return Tier
}

// HeapResource returns the process heap monitor.
func (f *Factory) HeapResource() monitoring.Resource {
	if f.resource == nil {
		return NewResource()
	}
	return f.resource
}

// MonitoredResources lists the resources this tier consumes.
func (f *Factory) MonitoredResources() []monitoring.Resource {
	return []monitoring.Resource{f.HeapResource()}
}
