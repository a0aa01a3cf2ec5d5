package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgOpenPool opens a pool for an asset pair at an initial price.
type MsgOpenPool struct {
	Creator          string   `json:"creator"`
	AssetA           string   `json:"asset_a"`
	AssetB           string   `json:"asset_b"`
	InitialSqrtPrice math.Int `json:"initial_sqrt_price"`
	TickSpacing      uint32   `json:"tick_spacing"`
	FeeRateBps       uint32   `json:"fee_rate_bps"`
}

type MsgOpenPoolResponse struct {
	PoolId PoolID `json:"pool_id"`
}

// ValidateBasic performs stateless checks
func (msg MsgOpenPool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Creator); err != nil {
		return ErrInvalidAddress.Wrapf("invalid creator address: %s", err)
	}
	if err := ValidateAssetPair(msg.AssetA, msg.AssetB); err != nil {
		return err
	}
	if msg.InitialSqrtPrice.IsNil() || !msg.InitialSqrtPrice.IsPositive() {
		return ErrInvalidSqrtPrice.Wrap("initial sqrt price must be positive")
	}
	return ValidatePoolParams(msg.TickSpacing, msg.FeeRateBps)
}

// PositionRef names a position by its identifying tuple.
type PositionRef struct {
	Owner     string `json:"owner"`
	PoolId    PoolID `json:"pool_id"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
}

// ValidateBasic performs stateless checks
func (ref PositionRef) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(ref.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("invalid owner address: %s", err)
	}
	if ref.PoolId.IsZero() {
		return ErrInvalidPoolID.Wrap("pool id cannot be empty")
	}
	if ref.TickLower >= ref.TickUpper {
		return ErrInvalidTickRange.Wrapf("lower %d must be below upper %d", ref.TickLower, ref.TickUpper)
	}
	return nil
}

// MsgAddLiquidity opens a position or adds liquidity to it.
type MsgAddLiquidity struct {
	PositionRef
	Liquidity  math.Int `json:"liquidity"`
	AmountAMax math.Int `json:"amount_a_max"`
	AmountBMax math.Int `json:"amount_b_max"`
}

type MsgAddLiquidityResponse struct {
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
}

// ValidateBasic performs stateless checks
func (msg MsgAddLiquidity) ValidateBasic() error {
	if err := msg.PositionRef.ValidateBasic(); err != nil {
		return err
	}
	if msg.Liquidity.IsNil() || !msg.Liquidity.IsPositive() {
		return ErrZeroLiquidity.Wrap("liquidity must be positive")
	}
	if msg.AmountAMax.IsNil() || msg.AmountAMax.IsNegative() || msg.AmountBMax.IsNil() || msg.AmountBMax.IsNegative() {
		return ErrZeroAmount.Wrap("max amounts cannot be negative")
	}
	return nil
}

// MsgRemoveLiquidity withdraws liquidity from a position.
type MsgRemoveLiquidity struct {
	PositionRef
	Liquidity math.Int `json:"liquidity"`
}

type MsgRemoveLiquidityResponse struct {
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
}

// ValidateBasic performs stateless checks
func (msg MsgRemoveLiquidity) ValidateBasic() error {
	if err := msg.PositionRef.ValidateBasic(); err != nil {
		return err
	}
	if msg.Liquidity.IsNil() || !msg.Liquidity.IsPositive() {
		return ErrZeroLiquidity.Wrap("liquidity must be positive")
	}
	return nil
}

// MsgCollectFees pays out a position's owed tokens.
type MsgCollectFees struct {
	PositionRef
}

type MsgCollectFeesResponse struct {
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
}

// MsgClosePosition deletes an empty position.
type MsgClosePosition struct {
	PositionRef
}

type MsgClosePositionResponse struct{}

// MsgSwapExactIn sells an exact input amount.
type MsgSwapExactIn struct {
	Trader         string    `json:"trader"`
	PoolId         PoolID    `json:"pool_id"`
	Direction      Direction `json:"direction"`
	AmountIn       math.Int  `json:"amount_in"`
	MinAmountOut   math.Int  `json:"min_amount_out"`
	SqrtPriceLimit math.Int  `json:"sqrt_price_limit"`
}

// ValidateBasic performs stateless checks
func (msg MsgSwapExactIn) ValidateBasic() error {
	if err := validateSwap(msg.Trader, msg.PoolId, msg.Direction, msg.SqrtPriceLimit); err != nil {
		return err
	}
	if msg.AmountIn.IsNil() || !msg.AmountIn.IsPositive() {
		return ErrZeroAmount.Wrap("amount in must be positive")
	}
	if msg.MinAmountOut.IsNil() || msg.MinAmountOut.IsNegative() {
		return ErrZeroAmount.Wrap("min amount out cannot be negative")
	}
	return nil
}

// MsgSwapExactOut buys an exact output amount.
type MsgSwapExactOut struct {
	Trader         string    `json:"trader"`
	PoolId         PoolID    `json:"pool_id"`
	Direction      Direction `json:"direction"`
	AmountOut      math.Int  `json:"amount_out"`
	MaxAmountIn    math.Int  `json:"max_amount_in"`
	SqrtPriceLimit math.Int  `json:"sqrt_price_limit"`
}

// ValidateBasic performs stateless checks
func (msg MsgSwapExactOut) ValidateBasic() error {
	if err := validateSwap(msg.Trader, msg.PoolId, msg.Direction, msg.SqrtPriceLimit); err != nil {
		return err
	}
	if msg.AmountOut.IsNil() || !msg.AmountOut.IsPositive() {
		return ErrZeroAmount.Wrap("amount out must be positive")
	}
	if msg.MaxAmountIn.IsNil() || !msg.MaxAmountIn.IsPositive() {
		return ErrZeroAmount.Wrap("max amount in must be positive")
	}
	return nil
}

type MsgSwapResponse struct {
	Result SwapResult `json:"result"`
}

func validateSwap(trader string, id PoolID, dir Direction, limit math.Int) error {
	if _, err := sdk.AccAddressFromBech32(trader); err != nil {
		return ErrInvalidAddress.Wrapf("invalid trader address: %s", err)
	}
	if id.IsZero() {
		return ErrInvalidPoolID.Wrap("pool id cannot be empty")
	}
	if err := dir.Validate(); err != nil {
		return err
	}
	if !limit.IsNil() && limit.IsNegative() {
		return ErrInvalidSqrtPrice.Wrap("sqrt price limit cannot be negative")
	}
	return nil
}
