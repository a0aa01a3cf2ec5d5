package keeper

import (
	"context"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/keeper"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
	ledgerkeeper "github.com/paw-chain/paw-clmm/x/ledger/keeper"
	sharedkeeper "github.com/paw-chain/paw-clmm/x/shared/keeper"
)

// CLMMFixture bundles a clmm keeper with the services it settles against.
type CLMMFixture struct {
	Keeper *keeper.Keeper
	Ledger *FaultyLedger
	Events *keeper.EventBuffer
	DB     dbm.DB
	Ctx    context.Context
}

// ClmmKeeper creates a test keeper for the CLMM module over an in-memory
// store, a real ledger and the address authority service.
func ClmmKeeper(t testing.TB, opts ...keeper.Option) *CLMMFixture {
	t.Helper()

	db := dbm.NewMemDB()
	ledger := &FaultyLedger{Keeper: ledgerkeeper.NewKeeper(db, log.NewNopLogger())}
	events := keeper.NewEventBuffer()

	k := keeper.NewKeeper(
		dbm.NewPrefixDB(db, []byte(types.StoreKey+"/")),
		ledger,
		sharedkeeper.NewAddressAuthority(types.ModuleName),
		log.NewNopLogger(),
		append([]keeper.Option{keeper.WithEventSink(events)}, opts...)...,
	)

	return &CLMMFixture{
		Keeper: k,
		Ledger: ledger,
		Events: events,
		DB:     db,
		Ctx:    context.Background(),
	}
}

// Fund mints coins to addr.
func (f *CLMMFixture) Fund(t testing.TB, addr sdk.AccAddress, coins sdk.Coins) {
	t.Helper()
	require.NoError(t, f.Ledger.MintCoins(f.Ctx, addr, coins))
}

// Balance returns the ledger balance of addr in denom.
func (f *CLMMFixture) Balance(addr sdk.AccAddress, denom string) math.Int {
	return f.Ledger.GetBalance(f.Ctx, addr, denom).Amount
}

// OpenPoolAtTick opens the pool of assetA/assetB with its price at tick.
func (f *CLMMFixture) OpenPoolAtTick(t testing.TB, creator sdk.AccAddress, assetA, assetB string, tick int32, spacing, feeRateBps uint32) types.PoolID {
	t.Helper()
	sqrtPrice, err := fixedpoint.SqrtPriceAtTick(tick)
	require.NoError(t, err)
	return f.OpenPool(t, creator, assetA, assetB, sqrtPrice, spacing, feeRateBps)
}

// OpenPool opens the pool of assetA/assetB at sqrtPrice.
func (f *CLMMFixture) OpenPool(t testing.TB, creator sdk.AccAddress, assetA, assetB string, sqrtPrice *uint256.Int, spacing, feeRateBps uint32) types.PoolID {
	t.Helper()
	id, err := f.Keeper.OpenPool(f.Ctx, creator, assetA, assetB, sqrtPrice, spacing, feeRateBps)
	require.NoError(t, err)
	return id
}

// RequireInvariants fails the test when any clmm invariant is broken.
func (f *CLMMFixture) RequireInvariants(t testing.TB) {
	t.Helper()
	res, broken := keeper.AllInvariants(*f.Keeper)(f.Ctx)
	require.False(t, broken, res)
}
