package keeper_test

import (
	"encoding/json"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/paw-clmm/x/clmm/keeper"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

func TestInvariants_Hold(t *testing.T) {
	f, id := setupPool(t)
	addLiquidity(t, f, lp, id, -100, 100, 1_000_000_000)
	addLiquidity(t, f, lp2, id, -200, -100, 1_000_000_000)
	_, err := swapIn(f, id, types.DirectionAToB, 10_000_000, 0)
	require.NoError(t, err)

	for _, route := range keeper.Invariants(*f.Keeper) {
		res, broken := route.Invariant(f.Ctx)
		require.False(t, broken, "%s: %s", route.Name, res)
	}
	require.NoError(t, f.Keeper.CheckInvariants(f.Ctx))
}

func TestInvariants_DetectCorruption(t *testing.T) {
	t.Run("active liquidity", func(t *testing.T) {
		f, id := setupPool(t)
		addLiquidity(t, f, lp, id, -100, 100, 1000)

		pool := getPool(t, f, id)
		pool.ActiveLiquidity = u(999)
		bz, err := json.Marshal(pool)
		require.NoError(t, err)
		require.NoError(t, f.DB.Set(append([]byte(types.StoreKey+"/"), types.GetPoolKey(id)...), bz))

		_, broken := keeper.ActiveLiquidityInvariant(*f.Keeper)(f.Ctx)
		require.True(t, broken)
		require.Error(t, f.Keeper.CheckInvariants(f.Ctx))
	})

	t.Run("tick liquidity", func(t *testing.T) {
		f, id := setupPool(t)
		addLiquidity(t, f, lp, id, -100, 100, 1000)

		require.NoError(t, f.DB.Delete(append([]byte(types.StoreKey+"/"), types.GetTickKey(id, 100)...)))

		_, broken := keeper.TickLiquidityInvariant(*f.Keeper)(f.Ctx)
		require.True(t, broken)
	})

	t.Run("vault solvency", func(t *testing.T) {
		f, id := setupPool(t)
		addLiquidity(t, f, lp, id, -100, 100, 1_000_000)

		pool := getPool(t, f, id)
		require.NoError(t, f.Ledger.BurnCoins(f.Ctx, pool.VaultA, sdk.NewCoins(sdk.NewInt64Coin(assetA, 10))))

		res, broken := keeper.VaultSolvencyInvariant(*f.Keeper)(f.Ctx)
		require.True(t, broken)
		require.Contains(t, res, "under-collateralized")
	})
}
