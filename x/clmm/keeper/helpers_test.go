package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/paw-clmm/testutil/keeper"
	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/keeper"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

const (
	assetA = "uatom"
	assetB = "uusdc"
)

var (
	creator = sdk.AccAddress([]byte("creator_____________"))
	lp      = sdk.AccAddress([]byte("liquidity_provider__"))
	lp2     = sdk.AccAddress([]byte("liquidity_provider_2"))
	trader  = sdk.AccAddress([]byte("trader______________"))
)

// funds gives each test account a large balance of both assets.
func funds() sdk.Coins {
	return sdk.NewCoins(
		sdk.NewCoin(assetA, math.NewInt(1_000_000_000_000_000)),
		sdk.NewCoin(assetB, math.NewInt(1_000_000_000_000_000)),
	)
}

func fundsOf(denom string) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(denom, math.NewInt(1_000_000_000_000_000)))
}

// setupPool opens the uatom/uusdc pool at tick 0 with spacing 10 and a
// 30 bps fee, and funds the test accounts.
func setupPool(t testing.TB) (*keepertest.CLMMFixture, types.PoolID) {
	t.Helper()
	f := keepertest.ClmmKeeper(t)
	for _, addr := range []sdk.AccAddress{lp, lp2, trader} {
		f.Fund(t, addr, funds())
	}
	return f, f.OpenPoolAtTick(t, creator, assetA, assetB, 0, 10, 30)
}

// addLiquidity adds liquidity with unbounded maximums and returns the amounts charged.
func addLiquidity(t testing.TB, f *keepertest.CLMMFixture, owner sdk.AccAddress, id types.PoolID, lower, upper int32, liquidity int64) (math.Int, math.Int) {
	t.Helper()
	unbounded := math.NewInt(1_000_000_000_000_000)
	a, b, err := f.Keeper.AddLiquidity(f.Ctx, owner, id, lower, upper, math.NewInt(liquidity), unbounded, unbounded)
	require.NoError(t, err)
	return a, b
}

func getPool(t testing.TB, f *keepertest.CLMMFixture, id types.PoolID) types.Pool {
	t.Helper()
	pool, err := f.Keeper.GetPool(f.Ctx, id)
	require.NoError(t, err)
	return pool
}

func sqrtPrice(t testing.TB, tick int32) *uint256.Int {
	t.Helper()
	p, err := fixedpoint.SqrtPriceAtTick(tick)
	require.NoError(t, err)
	return p
}

// lockPool holds the pool as an in-flight operation would.
func lockPool(f *keepertest.CLMMFixture, id types.PoolID) (func(), error) {
	return keeper.LockPoolForTest(f.Keeper, id)
}

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

// snapshot captures committed state and the balances of the test accounts.
type snapshot struct {
	genesis  *types.GenesisState
	balances map[string]math.Int
}

func takeSnapshot(t testing.TB, f *keepertest.CLMMFixture, id types.PoolID) snapshot {
	t.Helper()
	gs, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)

	pool := getPool(t, f, id)
	balances := make(map[string]math.Int)
	for _, addr := range []sdk.AccAddress{lp, lp2, trader, pool.VaultA, pool.VaultB} {
		for _, denom := range []string{assetA, assetB} {
			balances[addr.String()+denom] = f.Balance(addr, denom)
		}
	}
	return snapshot{genesis: gs, balances: balances}
}

func requireUnchanged(t testing.TB, f *keepertest.CLMMFixture, id types.PoolID, before snapshot) {
	t.Helper()
	after := takeSnapshot(t, f, id)
	require.Equal(t, before.genesis, after.genesis)
	for key, bal := range before.balances {
		require.True(t, bal.Equal(after.balances[key]), "balance %s changed: %s -> %s", key, bal, after.balances[key])
	}
}
