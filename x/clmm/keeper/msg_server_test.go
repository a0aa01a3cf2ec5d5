package keeper_test

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/keeper"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

func TestMsgServer_Flow(t *testing.T) {
	f, _ := setupPool(t)
	ms := keeper.NewMsgServerImpl(f.Keeper)

	openResp, err := ms.OpenPool(types.WithCaller(f.Ctx, creator.String()), &types.MsgOpenPool{
		Creator:          creator.String(),
		AssetA:           "uatom",
		AssetB:           "uosmo",
		InitialSqrtPrice: fixedpoint.ToInt(fixedpoint.Q64()),
		TickSpacing:      10,
		FeeRateBps:       30,
	})
	require.NoError(t, err)
	id := openResp.PoolId
	f.Fund(t, lp, funds().Add(fundsOf("uosmo")...))
	f.Fund(t, trader, fundsOf("uosmo"))

	ref := types.PositionRef{Owner: lp.String(), PoolId: id, TickLower: -100, TickUpper: 100}
	lpCtx := types.WithCaller(f.Ctx, lp.String())
	addResp, err := ms.AddLiquidity(lpCtx, &types.MsgAddLiquidity{
		PositionRef: ref,
		Liquidity:   math.NewInt(1_000_000_000_000),
		AmountAMax:  math.NewInt(10_000_000_000),
		AmountBMax:  math.NewInt(10_000_000_000),
	})
	require.NoError(t, err)
	require.True(t, addResp.AmountA.IsPositive())

	swapResp, err := ms.SwapExactIn(types.WithCaller(f.Ctx, trader.String()), &types.MsgSwapExactIn{
		Trader:       trader.String(),
		PoolId:       id,
		Direction:    types.DirectionAToB,
		AmountIn:     math.NewInt(500),
		MinAmountOut: math.NewInt(1),
	})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(497), swapResp.Result.AmountOut)

	swapResp, err = ms.SwapExactOut(types.WithCaller(f.Ctx, trader.String()), &types.MsgSwapExactOut{
		Trader:      trader.String(),
		PoolId:      id,
		Direction:   types.DirectionBToA,
		AmountOut:   math.NewInt(100),
		MaxAmountIn: math.NewInt(1000),
	})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(100), swapResp.Result.AmountOut)

	_, err = ms.RemoveLiquidity(lpCtx, &types.MsgRemoveLiquidity{PositionRef: ref, Liquidity: math.NewInt(1_000_000_000_000)})
	require.NoError(t, err)
	_, err = ms.CollectFees(lpCtx, &types.MsgCollectFees{PositionRef: ref})
	require.NoError(t, err)
	_, err = ms.ClosePosition(lpCtx, &types.MsgClosePosition{PositionRef: ref})
	require.NoError(t, err)
	f.RequireInvariants(t)
}

func TestMsgServer_Unauthorized(t *testing.T) {
	f, id := setupPool(t)
	ms := keeper.NewMsgServerImpl(f.Keeper)
	addLiquidity(t, f, lp, id, -100, 100, 1000)
	before := takeSnapshot(t, f, id)

	ref := types.PositionRef{Owner: lp.String(), PoolId: id, TickLower: -100, TickUpper: 100}
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"no caller", f.Ctx},
		{"other caller", types.WithCaller(f.Ctx, trader.String())},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ms.RemoveLiquidity(tc.ctx, &types.MsgRemoveLiquidity{PositionRef: ref, Liquidity: math.NewInt(1000)})
			require.ErrorIs(t, err, types.ErrUnauthorized)
			_, err = ms.CollectFees(tc.ctx, &types.MsgCollectFees{PositionRef: ref})
			require.ErrorIs(t, err, types.ErrUnauthorized)
			_, err = ms.SwapExactIn(tc.ctx, &types.MsgSwapExactIn{
				Trader:       lp.String(),
				PoolId:       id,
				Direction:    types.DirectionAToB,
				AmountIn:     math.NewInt(10),
				MinAmountOut: math.ZeroInt(),
			})
			require.ErrorIs(t, err, types.ErrUnauthorized)
		})
	}
	requireUnchanged(t, f, id, before)
}

func TestMsgServer_ValidateBasic(t *testing.T) {
	f, id := setupPool(t)
	ms := keeper.NewMsgServerImpl(f.Keeper)
	ctx := types.WithCaller(f.Ctx, lp.String())

	_, err := ms.AddLiquidity(ctx, &types.MsgAddLiquidity{
		PositionRef: types.PositionRef{Owner: "not-an-address", PoolId: id, TickLower: -100, TickUpper: 100},
		Liquidity:   math.NewInt(1),
		AmountAMax:  math.NewInt(1),
		AmountBMax:  math.NewInt(1),
	})
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	_, err = ms.AddLiquidity(ctx, &types.MsgAddLiquidity{
		PositionRef: types.PositionRef{Owner: lp.String(), PoolId: id, TickLower: 100, TickUpper: -100},
		Liquidity:   math.NewInt(1),
		AmountAMax:  math.NewInt(1),
		AmountBMax:  math.NewInt(1),
	})
	require.ErrorIs(t, err, types.ErrInvalidTickRange)

	_, err = ms.SwapExactOut(ctx, &types.MsgSwapExactOut{
		Trader:      lp.String(),
		PoolId:      id,
		Direction:   types.DirectionAToB,
		AmountOut:   math.ZeroInt(),
		MaxAmountIn: math.NewInt(1),
	})
	require.ErrorIs(t, err, types.ErrZeroAmount)
}
