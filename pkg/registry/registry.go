// Package registry manages the lifecycle of named key-value stores.
//
// A Registry is built from a storage.Factory and a static map of store
// configurations. Start materializes one store per configured alias in the
// background; once it completes, stores can be created, looked up and
// destroyed by alias until Shutdown. Every alias-scoped operation fails with
// an InvalidState storage error outside the STARTED state.
//
// Lookups are checked against the key and value types recorded when the store
// was created: the requested types must be identical, not merely compatible.
//
//	reg := registry.New(heap.NewFactory(), map[string]storage.StoreConfig{
//	    "sessions": heap.NewConfig[string, string](),
//	})
//	if err := reg.Start(ctx).Wait(ctx); err != nil {
//	    return err
//	}
//	defer reg.Shutdown()
//
//	sessions, ok, err := registry.Lookup[string, string](reg, "sessions")
package registry

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/marmos91/dittokv/internal/logger"
	"github.com/marmos91/dittokv/internal/telemetry"
	"github.com/marmos91/dittokv/pkg/metrics"
	"github.com/marmos91/dittokv/pkg/storage"
	storeerrs "github.com/marmos91/dittokv/pkg/storage/errors"
	"github.com/marmos91/dittokv/pkg/storage/monitoring"
)

// holder is a registered store together with the types it was created for.
type holder struct {
	store     any
	keyType   storage.TypeTag
	valueType storage.TypeTag
	created   time.Time
}

// StoreInfo describes a registered store.
type StoreInfo struct {
	Alias     string    `json:"alias" yaml:"alias"`
	Tier      string    `json:"tier" yaml:"tier"`
	KeyType   string    `json:"key_type" yaml:"key_type"`
	ValueType string    `json:"value_type" yaml:"value_type"`
	Size      int64     `json:"size" yaml:"size"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Registry is the lifecycle manager and alias directory of key-value stores.
type Registry struct {
	id      uuid.UUID
	factory storage.Factory
	configs map[string]storage.StoreConfig

	state    atomic.Int32
	starting atomic.Bool

	mu     sync.RWMutex // guards stores and state transitions
	stores map[string]*holder

	propsMu sync.RWMutex
	props   map[string]string

	metrics          *metrics.RegistryMetrics
	startConcurrency int
}

// New creates an UNINITIALIZED registry. configs is copied; later changes to
// the caller's map do not affect Start.
func New(factory storage.Factory, configs map[string]storage.StoreConfig, opts ...Option) *Registry {
	r := &Registry{
		id:               uuid.New(),
		factory:          factory,
		configs:          maps.Clone(configs),
		stores:           make(map[string]*holder),
		props:            make(map[string]string),
		startConcurrency: DefaultStartConcurrency,
	}
	if r.configs == nil {
		r.configs = make(map[string]storage.StoreConfig)
	}
	for _, opt := range opts {
		opt(r)
	}
	r.metrics.SetState(int(StateUninitialized))
	return r
}

// ID returns the unique id of this registry instance.
func (r *Registry) ID() uuid.UUID {
	return r.id
}

// State returns the current lifecycle state.
func (r *Registry) State() State {
	return State(r.state.Load())
}

func (r *Registry) setState(s State) {
	r.state.Store(int32(s))
	r.metrics.SetState(int(s))
}

// checkStarted returns an InvalidState error unless the registry is STARTED.
func (r *Registry) checkStarted() error {
	if s := r.State(); s != StateStarted {
		r.metrics.RecordError(metrics.KindInvalidState)
		return storeerrs.NewInvalidStateError(s.String())
	}
	return nil
}

// ============================================================================
// Lifecycle
// ============================================================================

// Start materializes the configured stores in the background and returns
// immediately. The returned Future completes once every store is registered
// and the registry is STARTED, or with the first factory error, in which case
// the registry stays UNINITIALIZED and Start may be called again.
//
// Creation ignores cancellation of ctx; only its values are kept. Cancel the
// context passed to Future.Wait to stop waiting instead.
//
// Calling Start while a start is in progress or after it succeeded returns an
// already failed Future.
func (r *Registry) Start(ctx context.Context) *Future {
	if s := r.State(); s != StateUninitialized || !r.starting.CompareAndSwap(false, true) {
		r.metrics.RecordError(metrics.KindInvalidState)
		return failedFuture(storeerrs.NewInvalidTransitionError("start", s.String()))
	}

	ctx = context.WithoutCancel(ctx)
	f := newFuture()
	go func() {
		err := r.start(ctx)
		r.starting.Store(false)
		f.complete(err)
	}()
	return f
}

func (r *Registry) start(ctx context.Context) (err error) {
	ctx, span := telemetry.StartRegistrySpan(ctx, telemetry.SpanRegistryStart,
		telemetry.Tier(r.factory.Tier()),
		telemetry.StoreCount(len(r.configs)),
	)
	defer span.End()
	defer func() { telemetry.RecordError(ctx, err) }()

	begin := time.Now()

	built, err := r.materialize(ctx)
	if err != nil {
		r.metrics.RecordError(metrics.KindFactory)
		logger.ErrorCtx(ctx, "registry start failed", logger.Err(err))
		return err
	}

	r.mu.Lock()
	if s := r.State(); s != StateUninitialized {
		r.mu.Unlock()
		closeStores(built)
		return storeerrs.NewInvalidTransitionError("start", s.String())
	}
	for alias, h := range built {
		// insert-if-absent: a store registered earlier under the alias wins
		if _, exists := r.stores[alias]; !exists {
			r.stores[alias] = h
		}
	}
	count := len(r.stores)
	r.setState(StateStarted)
	r.mu.Unlock()

	r.metrics.SetStores(count)
	r.metrics.ObserveStart(time.Since(begin))
	telemetry.SetAttributes(ctx, telemetry.State(StateStarted.String()))
	logger.InfoCtx(ctx, "registry started",
		logger.KeyStores, count,
		logger.KeyTier, r.factory.Tier(),
		logger.KeyDurationMs, logger.Duration(begin))
	return nil
}

// materialize builds every configured store with bounded parallelism.
func (r *Registry) materialize(ctx context.Context) (map[string]*holder, error) {
	var mu sync.Mutex
	built := make(map[string]*holder, len(r.configs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.startConcurrency)

	for _, alias := range slices.Sorted(maps.Keys(r.configs)) {
		cfg := r.configs[alias]
		g.Go(func() error {
			// set once a sibling failed
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := r.build(cfg)
			if err != nil {
				return fmt.Errorf("create store %q: %w", alias, err)
			}
			logger.Debug("store materialized",
				logger.KeyAlias, alias,
				logger.KeyKeyType, h.keyType.String(),
				logger.KeyValueType, h.valueType.String())

			mu.Lock()
			built[alias] = h
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		closeStores(built)
		return nil, err
	}
	return built, nil
}

func (r *Registry) build(cfg storage.StoreConfig) (*holder, error) {
	store, err := r.factory.Create(cfg)
	if err != nil {
		return nil, err
	}

	h := &holder{store: store, created: time.Now()}
	if cfg != nil {
		h.keyType, h.valueType = cfg.KeyType(), cfg.ValueType()
	} else {
		h.keyType, h.valueType = storage.TypeOf[any](), storage.TypeOf[any]()
	}
	return h, nil
}

// Shutdown stops the registry and drops every store. Stores implementing
// io.Closer are closed; close errors are logged. Calling Shutdown again is a
// no-op.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	if r.State() == StateStopped {
		r.mu.Unlock()
		return
	}
	stores := r.stores
	r.stores = make(map[string]*holder)
	r.setState(StateStopped)
	r.mu.Unlock()

	closeStores(stores)
	r.metrics.SetStores(0)
	logger.Info("registry stopped", logger.KeyStores, len(stores))
}

func closeStores(stores map[string]*holder) {
	for alias, h := range stores {
		if err := closeStore(h); err != nil {
			logger.Warn("failed to close store", logger.KeyAlias, alias, logger.KeyError, err)
		}
	}
}

func closeStore(h *holder) error {
	if c, ok := h.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Begin is a lifecycle check; the heap tier has no transactions.
func (r *Registry) Begin() error {
	return r.checkStarted()
}

// Commit is a lifecycle check; the heap tier has no transactions.
func (r *Registry) Commit() error {
	return r.checkStarted()
}

// ============================================================================
// Alias operations
// ============================================================================

// Create builds a store from cfg and registers it under alias. If the alias
// is taken, the existing store is kept and a DuplicateAlias error returned.
func (r *Registry) Create(alias string, cfg storage.StoreConfig) (any, error) {
	if err := r.checkStarted(); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, storeerrs.NewInvalidArgumentError("store config must not be nil")
	}

	h, err := r.build(cfg)
	if err != nil {
		r.metrics.RecordError(metrics.KindFactory)
		return nil, fmt.Errorf("create store %q: %w", alias, err)
	}

	r.mu.Lock()
	if s := r.State(); s != StateStarted {
		r.mu.Unlock()
		_ = closeStore(h)
		r.metrics.RecordError(metrics.KindInvalidState)
		return nil, storeerrs.NewInvalidStateError(s.String())
	}
	if _, exists := r.stores[alias]; exists {
		r.mu.Unlock()
		_ = closeStore(h)
		r.metrics.RecordError(metrics.KindDuplicateAlias)
		return nil, storeerrs.NewDuplicateAliasError(alias)
	}
	r.stores[alias] = h
	count := len(r.stores)
	r.mu.Unlock()

	r.metrics.SetStores(count)
	logger.Info("store created",
		logger.KeyAlias, alias,
		logger.KeyKeyType, h.keyType.String(),
		logger.KeyValueType, h.valueType.String())
	return h.store, nil
}

// Destroy unregisters the store under alias, closing it if it implements
// io.Closer. Destroying an unknown alias is a no-op.
func (r *Registry) Destroy(alias string) error {
	if err := r.checkStarted(); err != nil {
		return err
	}

	r.mu.Lock()
	h, ok := r.stores[alias]
	delete(r.stores, alias)
	count := len(r.stores)
	r.mu.Unlock()

	if !ok {
		return nil
	}

	r.metrics.SetStores(count)
	logger.Info("store destroyed", logger.KeyAlias, alias)
	if err := closeStore(h); err != nil {
		return fmt.Errorf("close store %q: %w", alias, err)
	}
	return nil
}

// Get returns the store under alias after checking that it was created for
// exactly keyType and valueType. An unknown alias yields (nil, false, nil).
func (r *Registry) Get(alias string, keyType, valueType storage.TypeTag) (any, bool, error) {
	if err := r.checkStarted(); err != nil {
		return nil, false, err
	}

	r.mu.RLock()
	h, ok := r.stores[alias]
	r.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if h.keyType != keyType || h.valueType != valueType {
		r.metrics.RecordError(metrics.KindTypeMismatch)
		return nil, false, storeerrs.NewTypeMismatchError(alias,
			h.keyType.String(), h.valueType.String(),
			keyType.String(), valueType.String())
	}
	return h.store, true, nil
}

// Aliases returns the registered aliases in sorted order.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.stores))
}

// Describe returns information about the store under alias.
func (r *Registry) Describe(alias string) (StoreInfo, bool, error) {
	if err := r.checkStarted(); err != nil {
		return StoreInfo{}, false, err
	}

	r.mu.RLock()
	h, ok := r.stores[alias]
	r.mu.RUnlock()
	if !ok {
		return StoreInfo{}, false, nil
	}
	return r.describe(alias, h), true, nil
}

// Stores describes every registered store, sorted by alias.
func (r *Registry) Stores() []StoreInfo {
	r.mu.RLock()
	snapshot := maps.Clone(r.stores)
	r.mu.RUnlock()

	infos := make([]StoreInfo, 0, len(snapshot))
	for _, alias := range slices.Sorted(maps.Keys(snapshot)) {
		infos = append(infos, r.describe(alias, snapshot[alias]))
	}
	return infos
}

// StoreSizes returns the entry count of every registered store.
// It implements metrics.SizeSource.
func (r *Registry) StoreSizes() map[string]int64 {
	r.mu.RLock()
	snapshot := maps.Clone(r.stores)
	r.mu.RUnlock()

	sizes := make(map[string]int64, len(snapshot))
	for alias, h := range snapshot {
		if s, ok := h.store.(storage.Sizer); ok {
			sizes[alias] = s.Size()
		}
	}
	return sizes
}

func (r *Registry) describe(alias string, h *holder) StoreInfo {
	info := StoreInfo{
		Alias:     alias,
		Tier:      r.factory.Tier(),
		KeyType:   h.keyType.String(),
		ValueType: h.valueType.String(),
		CreatedAt: h.created,
	}
	if s, ok := h.store.(storage.Sizer); ok {
		info.Size = s.Size()
	}
	return info
}

// ============================================================================
// Properties and monitoring
// ============================================================================

// Properties returns a copy of the storage properties.
func (r *Registry) Properties() map[string]string {
	r.propsMu.RLock()
	defer r.propsMu.RUnlock()
	return maps.Clone(r.props)
}

// Property returns one storage property.
func (r *Registry) Property(key string) (string, bool) {
	r.propsMu.RLock()
	defer r.propsMu.RUnlock()
	v, ok := r.props[key]
	return v, ok
}

// SetProperty sets one storage property.
func (r *Registry) SetProperty(key, value string) {
	r.propsMu.Lock()
	defer r.propsMu.Unlock()
	r.props[key] = value
}

// MonitoredResources returns the resources the factory's tier consumes, if
// it reports any.
func (r *Registry) MonitoredResources() []monitoring.Resource {
	if p, ok := r.factory.(interface {
		MonitoredResources() []monitoring.Resource
	}); ok {
		return p.MonitoredResources()
	}
	return nil
}

// Tier returns the storage tier of the factory.
func (r *Registry) Tier() string {
	return r.factory.Tier()
}
