package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the clmm MsgServer interface
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// authorize checks that the caller of the invocation controls the named
// account and returns it.
func (ms msgServer) authorize(ctx context.Context, account string) (sdk.AccAddress, error) {
	addr, err := sdk.AccAddressFromBech32(account)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("%s: %s", account, err)
	}
	caller, ok := types.CallerFromContext(ctx)
	if !ok {
		return nil, types.ErrUnauthorized.Wrap("no caller in context")
	}
	if err := ms.authority.VerifyController(ctx, caller, addr); err != nil {
		return nil, types.ErrUnauthorized.Wrapf("%s does not control %s: %s", caller, account, err)
	}
	return addr, nil
}

// OpenPool handles the creation of a new pool
func (ms msgServer) OpenPool(goCtx context.Context, msg *types.MsgOpenPool) (*types.MsgOpenPoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("OpenPool: validate: %w", err)
	}
	creator, err := ms.authorize(goCtx, msg.Creator)
	if err != nil {
		return nil, fmt.Errorf("OpenPool: %w", err)
	}
	sqrtPrice, err := fixedpoint.FromInt(msg.InitialSqrtPrice)
	if err != nil {
		return nil, fmt.Errorf("OpenPool: initial sqrt price: %w", err)
	}

	poolID, err := ms.Keeper.OpenPool(goCtx, creator, msg.AssetA, msg.AssetB, sqrtPrice, msg.TickSpacing, msg.FeeRateBps)
	if err != nil {
		return nil, fmt.Errorf("OpenPool: %w", err)
	}
	return &types.MsgOpenPoolResponse{PoolId: poolID}, nil
}

// AddLiquidity handles opening or increasing a position
func (ms msgServer) AddLiquidity(goCtx context.Context, msg *types.MsgAddLiquidity) (*types.MsgAddLiquidityResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("AddLiquidity: validate: %w", err)
	}
	owner, err := ms.authorize(goCtx, msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}

	amountA, amountB, err := ms.Keeper.AddLiquidity(goCtx, owner, msg.PoolId, msg.TickLower, msg.TickUpper, msg.Liquidity, msg.AmountAMax, msg.AmountBMax)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}
	return &types.MsgAddLiquidityResponse{AmountA: amountA, AmountB: amountB}, nil
}

// RemoveLiquidity handles withdrawing liquidity from a position
func (ms msgServer) RemoveLiquidity(goCtx context.Context, msg *types.MsgRemoveLiquidity) (*types.MsgRemoveLiquidityResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: validate: %w", err)
	}
	owner, err := ms.authorize(goCtx, msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}

	amountA, amountB, err := ms.Keeper.RemoveLiquidity(goCtx, owner, msg.PoolId, msg.TickLower, msg.TickUpper, msg.Liquidity)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}
	return &types.MsgRemoveLiquidityResponse{AmountA: amountA, AmountB: amountB}, nil
}

// CollectFees handles paying out a position's owed tokens
func (ms msgServer) CollectFees(goCtx context.Context, msg *types.MsgCollectFees) (*types.MsgCollectFeesResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("CollectFees: validate: %w", err)
	}
	owner, err := ms.authorize(goCtx, msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("CollectFees: %w", err)
	}

	amountA, amountB, err := ms.Keeper.CollectFees(goCtx, owner, msg.PoolId, msg.TickLower, msg.TickUpper)
	if err != nil {
		return nil, fmt.Errorf("CollectFees: %w", err)
	}
	return &types.MsgCollectFeesResponse{AmountA: amountA, AmountB: amountB}, nil
}

// ClosePosition handles deleting an empty position
func (ms msgServer) ClosePosition(goCtx context.Context, msg *types.MsgClosePosition) (*types.MsgClosePositionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ClosePosition: validate: %w", err)
	}
	owner, err := ms.authorize(goCtx, msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("ClosePosition: %w", err)
	}

	if err := ms.Keeper.ClosePosition(goCtx, owner, msg.PoolId, msg.TickLower, msg.TickUpper); err != nil {
		return nil, fmt.Errorf("ClosePosition: %w", err)
	}
	return &types.MsgClosePositionResponse{}, nil
}

// SwapExactIn handles selling an exact input amount
func (ms msgServer) SwapExactIn(goCtx context.Context, msg *types.MsgSwapExactIn) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SwapExactIn: validate: %w", err)
	}
	trader, err := ms.authorize(goCtx, msg.Trader)
	if err != nil {
		return nil, fmt.Errorf("SwapExactIn: %w", err)
	}

	result, err := ms.Keeper.SwapExactIn(goCtx, trader, msg.PoolId, msg.Direction, msg.AmountIn, msg.MinAmountOut, msg.SqrtPriceLimit)
	if err != nil {
		return nil, fmt.Errorf("SwapExactIn: %w", err)
	}
	return &types.MsgSwapResponse{Result: result}, nil
}

// SwapExactOut handles buying an exact output amount
func (ms msgServer) SwapExactOut(goCtx context.Context, msg *types.MsgSwapExactOut) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SwapExactOut: validate: %w", err)
	}
	trader, err := ms.authorize(goCtx, msg.Trader)
	if err != nil {
		return nil, fmt.Errorf("SwapExactOut: %w", err)
	}

	result, err := ms.Keeper.SwapExactOut(goCtx, trader, msg.PoolId, msg.Direction, msg.AmountOut, msg.MaxAmountIn, msg.SqrtPriceLimit)
	if err != nil {
		return nil, fmt.Errorf("SwapExactOut: %w", err)
	}
	return &types.MsgSwapResponse{Result: result}, nil
}
