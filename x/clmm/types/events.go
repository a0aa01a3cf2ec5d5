package types

// Event types for the CLMM module
const (
	EventTypePoolOpened       = "pool_opened"
	EventTypeLiquidityAdded   = "liquidity_added"
	EventTypeLiquidityRemoved = "liquidity_removed"
	EventTypeFeesCollected    = "fees_collected"
	EventTypePositionClosed   = "position_closed"
	EventTypeSwap             = "swap"
	EventTypeTickCrossed      = "tick_crossed"
)

// Event attribute keys
const (
	AttributeKeyPoolID       = "pool_id"
	AttributeKeyCreator      = "creator"
	AttributeKeyOwner        = "owner"
	AttributeKeyTrader       = "trader"
	AttributeKeyAssetA       = "asset_a"
	AttributeKeyAssetB       = "asset_b"
	AttributeKeyTickLower    = "tick_lower"
	AttributeKeyTickUpper    = "tick_upper"
	AttributeKeyTick         = "tick"
	AttributeKeyLiquidity    = "liquidity"
	AttributeKeyAmountA      = "amount_a"
	AttributeKeyAmountB      = "amount_b"
	AttributeKeyAmountIn     = "amount_in"
	AttributeKeyAmountOut    = "amount_out"
	AttributeKeyFee          = "fee"
	AttributeKeyDirection    = "direction"
	AttributeKeySqrtPrice    = "sqrt_price"
	AttributeKeyTickSpacing  = "tick_spacing"
	AttributeKeyFeeRate      = "fee_rate_bps"
	AttributeKeyTicksCrossed = "ticks_crossed"
)
