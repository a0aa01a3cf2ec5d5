package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/paw-clmm/testutil/keeper"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

func TestGenesis_ExportImport(t *testing.T) {
	f, id := setupPool(t)
	addLiquidity(t, f, lp, id, -100, 100, 1_000_000_000)
	addLiquidity(t, f, lp2, id, -200, -100, 1_000_000_000)
	_, err := swapIn(f, id, types.DirectionAToB, 10_000_000, 0)
	require.NoError(t, err)

	exported, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.Len(t, exported.Pools, 1)
	require.Len(t, exported.Ticks, 3)
	require.Len(t, exported.Positions, 2)
	require.NoError(t, exported.Validate())

	g := keepertest.ClmmKeeper(t)
	require.NoError(t, g.Keeper.InitGenesis(g.Ctx, *exported))

	reexported, err := g.Keeper.ExportGenesis(g.Ctx)
	require.NoError(t, err)
	require.Equal(t, exported, reexported)

	// the imported pool prices a swap like the original
	want, err := f.Keeper.SimulateSwap(f.Ctx, id, types.DirectionBToA, math.NewInt(1_000_000), true, math.ZeroInt())
	require.NoError(t, err)
	got, err := g.Keeper.SimulateSwap(g.Ctx, id, types.DirectionBToA, math.NewInt(1_000_000), true, math.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestGenesis_Default(t *testing.T) {
	f := keepertest.ClmmKeeper(t)
	require.NoError(t, f.Keeper.InitGenesis(f.Ctx, *types.DefaultGenesis()))

	exported, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, types.DefaultGenesis(), exported)
}

func TestGenesis_Invalid(t *testing.T) {
	f, id := setupPool(t)
	addLiquidity(t, f, lp, id, -100, 100, 1000)
	exported, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(gs *types.GenesisState)
	}{
		{"duplicate pool", func(gs *types.GenesisState) {
			gs.Pools = append(gs.Pools, gs.Pools[0])
		}},
		{"tick disagrees with positions", func(gs *types.GenesisState) {
			gs.Ticks[0].LiquidityNet = gs.Ticks[0].LiquidityNet.AddRaw(1)
		}},
		{"missing tick", func(gs *types.GenesisState) {
			gs.Ticks = gs.Ticks[:1]
		}},
		{"position in unknown pool", func(gs *types.GenesisState) {
			gs.Positions[0].PoolId = types.NewPoolID("uatom", "uosmo")
		}},
		{"wrong active liquidity", func(gs *types.GenesisState) {
			gs.Pools[0].ActiveLiquidity = u(1)
		}},
		{"current tick below the price", func(gs *types.GenesisState) {
			// strictly inside tick 0, so tick -1 is one off
			between := new(uint256.Int).Add(sqrtPrice(t, 0), sqrtPrice(t, 1))
			gs.Pools[0].SqrtPrice = between.Rsh(between, 1)
			gs.Pools[0].CurrentTick = -1
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs, err := f.Keeper.ExportGenesis(f.Ctx)
			require.NoError(t, err)
			tc.mutate(gs)

			g := keepertest.ClmmKeeper(t)
			require.ErrorIs(t, g.Keeper.InitGenesis(g.Ctx, *gs), types.ErrInvalidGenesis)
			pools, err := g.Keeper.GetAllPools(g.Ctx)
			require.NoError(t, err)
			require.Empty(t, pools)
		})
	}

	// importing over existing state is rejected
	require.ErrorIs(t, f.Keeper.InitGenesis(f.Ctx, *exported), types.ErrPoolAlreadyExists)
}
