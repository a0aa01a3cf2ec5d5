package keeper

import (
	"sync"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// DefaultMaxSwapSteps bounds the number of price steps of a single swap.
const DefaultMaxSwapSteps uint32 = 1024

// Keeper of the clmm store
type Keeper struct {
	db         dbm.DB
	bankKeeper types.BankKeeper
	authority  types.AuthorityKeeper
	events     types.EventSink
	logger     log.Logger
	metrics    *CLMMMetrics
	guard      *poolGuard
	maxSteps   uint32
}

// Option configures a Keeper.
type Option func(*Keeper)

// WithEventSink sets where events of committed operations are emitted. The
// sink must be safe for concurrent use when different pools are operated on
// concurrently. The default is an EventBuffer.
func WithEventSink(sink types.EventSink) Option {
	return func(k *Keeper) { k.events = sink }
}

// WithMaxSwapSteps overrides DefaultMaxSwapSteps.
func WithMaxSwapSteps(n uint32) Option {
	return func(k *Keeper) {
		if n > 0 {
			k.maxSteps = n
		}
	}
}

// NewKeeper creates a new clmm Keeper instance. The database is owned by
// the caller; the keeper never closes it.
func NewKeeper(
	db dbm.DB,
	bankKeeper types.BankKeeper,
	authority types.AuthorityKeeper,
	logger log.Logger,
	opts ...Option,
) *Keeper {
	k := &Keeper{
		db:         db,
		bankKeeper: bankKeeper,
		authority:  authority,
		events:     NewEventBuffer(),
		logger:     logger,
		metrics:    NewCLMMMetrics(),
		guard:      &poolGuard{busy: make(map[types.PoolID]struct{})},
		maxSteps:   DefaultMaxSwapSteps,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger.With("module", "x/"+types.ModuleName)
}

func (k Keeper) emit(events ...sdk.Event) {
	for _, e := range events {
		k.events.EmitEvent(e)
	}
}

// poolGuard serializes operations per pool. A second invocation on a pool
// that already has one in flight is rejected, never queued.
type poolGuard struct {
	mu   sync.Mutex
	busy map[types.PoolID]struct{}
}

func (g *poolGuard) acquire(id types.PoolID) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.busy[id]; ok {
		return nil, types.ErrPoolBusy.Wrapf("pool %s", id)
	}
	g.busy[id] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.busy, id)
		g.mu.Unlock()
	}, nil
}

// lockPool acquires the per-pool guard and counts rejections.
func (k Keeper) lockPool(id types.PoolID) (func(), error) {
	release, err := k.guard.acquire(id)
	if err != nil {
		k.metrics.PoolBusyRejections.WithLabelValues(id.String()).Inc()
		return nil, err
	}
	return release, nil
}
