package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

func TestAddLiquidity_InRange(t *testing.T) {
	f, id := setupPool(t)

	amountA, amountB := addLiquidity(t, f, lp, id, -100, 100, 1000)
	require.Equal(t, math.NewInt(5), amountA)
	require.Equal(t, math.NewInt(5), amountB)

	pool := getPool(t, f, id)
	require.Equal(t, uint64(1000), pool.ActiveLiquidity.Uint64())
	require.Equal(t, math.NewInt(5), f.Balance(pool.VaultA, assetA))
	require.Equal(t, math.NewInt(5), f.Balance(pool.VaultB, assetB))

	lower, err := f.Keeper.GetTick(f.Ctx, id, -100)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1000), lower.LiquidityNet)
	require.Equal(t, uint64(1000), lower.LiquidityGross.Uint64())
	// initialized at or below the current tick: outside starts at global
	require.True(t, lower.FeeGrowthOutsideA.Eq(pool.FeeGrowthGlobalA))

	upper, err := f.Keeper.GetTick(f.Ctx, id, 100)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(-1000), upper.LiquidityNet)
	require.True(t, upper.FeeGrowthOutsideA.IsZero())

	pos, err := f.Keeper.GetPosition(f.Ctx, lp, id, -100, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), pos.Liquidity.Uint64())
	require.True(t, pos.TokensOwedA.IsZero())

	f.RequireInvariants(t)
}

func TestAddLiquidity_OutOfRange(t *testing.T) {
	f, id := setupPool(t)

	// above the price the position is all asset A
	amountA, amountB := addLiquidity(t, f, lp, id, 100, 200, 1_000_000)
	require.Equal(t, math.NewInt(4963), amountA)
	require.True(t, amountB.IsZero())

	// below the price it is all asset B
	amountA, amountB = addLiquidity(t, f, lp, id, -200, -100, 1_000_000)
	require.True(t, amountA.IsZero())
	require.Equal(t, math.NewInt(4963), amountB)

	require.True(t, getPool(t, f, id).ActiveLiquidity.IsZero())
	f.RequireInvariants(t)
}

func TestAddLiquidity_IncreasesExisting(t *testing.T) {
	f, id := setupPool(t)
	addLiquidity(t, f, lp, id, -100, 100, 1000)
	addLiquidity(t, f, lp, id, -100, 100, 500)
	addLiquidity(t, f, lp2, id, -100, 100, 250)

	pos, err := f.Keeper.GetPosition(f.Ctx, lp, id, -100, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(1500), pos.Liquidity.Uint64())

	tick, err := f.Keeper.GetTick(f.Ctx, id, 100)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(-1750), tick.LiquidityNet)
	require.Equal(t, uint64(1750), getPool(t, f, id).ActiveLiquidity.Uint64())

	positions, err := f.Keeper.GetPoolPositions(f.Ctx, id)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	f.RequireInvariants(t)
}

func TestAddLiquidity_Slippage(t *testing.T) {
	f, id := setupPool(t)
	before := takeSnapshot(t, f, id)

	_, _, err := f.Keeper.AddLiquidity(f.Ctx, lp, id, -100, 100, math.NewInt(1000), math.NewInt(4), math.NewInt(100))
	require.ErrorIs(t, err, types.ErrSlippageExceeded)
	requireUnchanged(t, f, id, before)

	_, _, err = f.Keeper.AddLiquidity(f.Ctx, lp, id, -100, 100, math.NewInt(1000), math.NewInt(5), math.NewInt(5))
	require.NoError(t, err)
}

func TestAddLiquidity_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		lower     int32
		upper     int32
		liquidity math.Int
		wantErr   error
	}{
		{"inverted range", 100, -100, math.NewInt(1000), types.ErrInvalidTickRange},
		{"empty range", 100, 100, math.NewInt(1000), types.ErrInvalidTickRange},
		{"misaligned lower", -105, 100, math.NewInt(1000), types.ErrInvalidTickRange},
		{"misaligned upper", -100, 95, math.NewInt(1000), types.ErrInvalidTickRange},
		{"beyond max tick", -100, 443640, math.NewInt(1000), types.ErrInvalidTickRange},
		{"zero liquidity", -100, 100, math.ZeroInt(), types.ErrZeroLiquidity},
		{"negative liquidity", -100, 100, math.NewInt(-1), types.ErrZeroLiquidity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, id := setupPool(t)
			before := takeSnapshot(t, f, id)
			max := math.NewInt(1_000_000)
			_, _, err := f.Keeper.AddLiquidity(f.Ctx, lp, id, tc.lower, tc.upper, tc.liquidity, max, max)
			require.ErrorIs(t, err, tc.wantErr)
			requireUnchanged(t, f, id, before)
		})
	}
}

func TestAddLiquidity_PoolNotFound(t *testing.T) {
	f, _ := setupPool(t)
	max := math.NewInt(1_000_000)
	_, _, err := f.Keeper.AddLiquidity(f.Ctx, lp, types.NewPoolID("uatom", "uosmo"), -100, 100, math.NewInt(1000), max, max)
	require.ErrorIs(t, err, types.ErrPoolNotFound)
}

func TestAddLiquidity_SettlementFailure(t *testing.T) {
	f, id := setupPool(t)
	before := takeSnapshot(t, f, id)

	// the second deposit fails after the first has moved
	f.Ledger.FailCalls(2)
	max := math.NewInt(1_000_000)
	_, _, err := f.Keeper.AddLiquidity(f.Ctx, lp, id, -100, 100, math.NewInt(1_000_000), max, max)
	require.Error(t, err)
	require.Equal(t, 3, f.Ledger.Calls())
	requireUnchanged(t, f, id, before)
}

func TestRemoveLiquidity_RoundTrip(t *testing.T) {
	f, id := setupPool(t)
	paidA, paidB := addLiquidity(t, f, lp, id, -100, 100, 1_000_000)
	require.Equal(t, math.NewInt(4988), paidA)
	require.Equal(t, math.NewInt(4988), paidB)

	gotA, gotB, err := f.Keeper.RemoveLiquidity(f.Ctx, lp, id, -100, 100, math.NewInt(1_000_000))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(4987), gotA)
	require.Equal(t, math.NewInt(4987), gotB)

	pool := getPool(t, f, id)
	require.True(t, pool.ActiveLiquidity.IsZero())
	// rounding leaves the pool the remainder
	require.Equal(t, math.NewInt(1), f.Balance(pool.VaultA, assetA))
	require.Equal(t, math.NewInt(1), f.Balance(pool.VaultB, assetB))

	ticks, err := f.Keeper.GetTicks(f.Ctx, id)
	require.NoError(t, err)
	require.Empty(t, ticks)

	_, err = f.Keeper.GetTick(f.Ctx, id, -100)
	require.ErrorIs(t, err, types.ErrTickNotFound)

	pos, err := f.Keeper.GetPosition(f.Ctx, lp, id, -100, 100)
	require.NoError(t, err)
	require.True(t, pos.IsEmpty())
	f.RequireInvariants(t)
}

func TestRemoveLiquidity_Partial(t *testing.T) {
	f, id := setupPool(t)
	addLiquidity(t, f, lp, id, -100, 100, 1_000_000)
	addLiquidity(t, f, lp2, id, -100, 100, 1_000_000)

	_, _, err := f.Keeper.RemoveLiquidity(f.Ctx, lp, id, -100, 100, math.NewInt(400_000))
	require.NoError(t, err)

	pos, err := f.Keeper.GetPosition(f.Ctx, lp, id, -100, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(600_000), pos.Liquidity.Uint64())
	require.Equal(t, uint64(1_600_000), getPool(t, f, id).ActiveLiquidity.Uint64())

	tick, err := f.Keeper.GetTick(f.Ctx, id, -100)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1_600_000), tick.LiquidityNet)
	f.RequireInvariants(t)
}

func TestRemoveLiquidity_Invalid(t *testing.T) {
	f, id := setupPool(t)
	addLiquidity(t, f, lp, id, -100, 100, 1000)
	before := takeSnapshot(t, f, id)

	_, _, err := f.Keeper.RemoveLiquidity(f.Ctx, lp, id, -100, 100, math.NewInt(1001))
	require.ErrorIs(t, err, types.ErrInvalidLiquidityAmount)

	_, _, err = f.Keeper.RemoveLiquidity(f.Ctx, lp, id, -100, 100, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrZeroLiquidity)

	_, _, err = f.Keeper.RemoveLiquidity(f.Ctx, lp2, id, -100, 100, math.NewInt(1))
	require.ErrorIs(t, err, types.ErrPositionNotFound)

	requireUnchanged(t, f, id, before)
}

func TestCollectAndClose(t *testing.T) {
	f, id := setupPool(t)
	addLiquidity(t, f, lp, id, -100, 100, 1_000_000_000_000)

	res, err := f.Keeper.SwapExactIn(f.Ctx, trader, id, types.DirectionAToB, math.NewInt(500), math.ZeroInt(), math.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, math.NewInt(2), res.FeeAmount)

	// liquidity still held
	err = f.Keeper.ClosePosition(f.Ctx, lp, id, -100, 100)
	require.ErrorIs(t, err, types.ErrPositionStillHasLiquidity)

	_, _, err = f.Keeper.RemoveLiquidity(f.Ctx, lp, id, -100, 100, math.NewInt(1_000_000_000_000))
	require.NoError(t, err)

	// fees settled on removal are still owed
	err = f.Keeper.ClosePosition(f.Ctx, lp, id, -100, 100)
	require.ErrorIs(t, err, types.ErrPositionNotEmpty)

	previewA, previewB, err := f.Keeper.PreviewFees(f.Ctx, lp, id, -100, 100)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1), previewA)
	require.True(t, previewB.IsZero())

	balanceBefore := f.Balance(lp, assetA)
	feeA, feeB, err := f.Keeper.CollectFees(f.Ctx, lp, id, -100, 100)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1), feeA)
	require.True(t, feeB.IsZero())
	require.Equal(t, balanceBefore.AddRaw(1), f.Balance(lp, assetA))

	// a second collect pays nothing
	feeA, feeB, err = f.Keeper.CollectFees(f.Ctx, lp, id, -100, 100)
	require.NoError(t, err)
	require.True(t, feeA.IsZero())
	require.True(t, feeB.IsZero())

	require.NoError(t, f.Keeper.ClosePosition(f.Ctx, lp, id, -100, 100))
	_, err = f.Keeper.GetPosition(f.Ctx, lp, id, -100, 100)
	require.ErrorIs(t, err, types.ErrPositionNotFound)

	err = f.Keeper.ClosePosition(f.Ctx, lp, id, -100, 100)
	require.ErrorIs(t, err, types.ErrPositionNotFound)
	f.RequireInvariants(t)
}

func TestCollectFees_SplitAcrossRanges(t *testing.T) {
	f, id := setupPool(t)
	addLiquidity(t, f, lp, id, -100, 100, 1_000_000_000)
	addLiquidity(t, f, lp2, id, -200, -100, 1_000_000_000)

	res, err := f.Keeper.SwapExactIn(f.Ctx, trader, id, types.DirectionAToB, math.NewInt(10_000_000), math.ZeroInt(), math.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, uint32(1), res.TicksCrossed)
	require.Equal(t, int32(-199), res.CurrentTick)

	feeA, _, err := f.Keeper.CollectFees(f.Ctx, lp, id, -100, 100)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(15082), feeA)

	feeA, _, err = f.Keeper.CollectFees(f.Ctx, lp2, id, -200, -100)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(14917), feeA)

	// swap back across the boundary and collect the other asset
	res, err = f.Keeper.SwapExactIn(f.Ctx, trader, id, types.DirectionBToA, math.NewInt(10_000_000), math.ZeroInt(), math.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, int32(1), res.CurrentTick)

	feeA, feeB, err := f.Keeper.CollectFees(f.Ctx, lp, id, -100, 100)
	require.NoError(t, err)
	require.True(t, feeA.IsZero())
	require.Equal(t, math.NewInt(15302), feeB)

	_, feeB, err = f.Keeper.CollectFees(f.Ctx, lp2, id, -200, -100)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(14697), feeB)
	f.RequireInvariants(t)
}

func TestLiquidityOps_PoolBusy(t *testing.T) {
	f, id := setupPool(t)
	addLiquidity(t, f, lp, id, -100, 100, 1000)

	release, err := lockPool(f, id)
	require.NoError(t, err)

	max := math.NewInt(1_000_000)
	_, _, err = f.Keeper.AddLiquidity(f.Ctx, lp, id, -100, 100, math.NewInt(1), max, max)
	require.ErrorIs(t, err, types.ErrPoolBusy)
	_, _, err = f.Keeper.RemoveLiquidity(f.Ctx, lp, id, -100, 100, math.NewInt(1))
	require.ErrorIs(t, err, types.ErrPoolBusy)
	_, _, err = f.Keeper.CollectFees(f.Ctx, lp, id, -100, 100)
	require.ErrorIs(t, err, types.ErrPoolBusy)

	release()
	_, _, err = f.Keeper.RemoveLiquidity(f.Ctx, lp, id, -100, 100, math.NewInt(1))
	require.NoError(t, err)
}
