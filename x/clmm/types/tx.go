package types

import (
	"context"
)

// MsgServer is the handler of CLMM messages.
type MsgServer interface {
	OpenPool(context.Context, *MsgOpenPool) (*MsgOpenPoolResponse, error)
	AddLiquidity(context.Context, *MsgAddLiquidity) (*MsgAddLiquidityResponse, error)
	RemoveLiquidity(context.Context, *MsgRemoveLiquidity) (*MsgRemoveLiquidityResponse, error)
	CollectFees(context.Context, *MsgCollectFees) (*MsgCollectFeesResponse, error)
	ClosePosition(context.Context, *MsgClosePosition) (*MsgClosePositionResponse, error)
	SwapExactIn(context.Context, *MsgSwapExactIn) (*MsgSwapResponse, error)
	SwapExactOut(context.Context, *MsgSwapExactOut) (*MsgSwapResponse, error)
}
