package types

import (
	"cosmossdk.io/math"
	"github.com/holiman/uint256"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
)

// Tick holds the liquidity referenced at one tick boundary of a pool.
//
// LiquidityNet is positive at a position's lower tick and negative at its
// upper tick: crossing upward adds it to the active liquidity, crossing
// downward subtracts it. FeeGrowthOutside records the fee growth on the side
// of the tick away from the current price and is flipped on every crossing.
type Tick struct {
	PoolId            PoolID       `json:"pool_id"`
	Index             int32        `json:"index"`
	LiquidityNet      math.Int     `json:"liquidity_net"`
	LiquidityGross    *uint256.Int `json:"liquidity_gross"`
	FeeGrowthOutsideA *uint256.Int `json:"fee_growth_outside_a"`
	FeeGrowthOutsideB *uint256.Int `json:"fee_growth_outside_b"`
}

// NewTick returns an uninitialized tick.
func NewTick(id PoolID, index int32) Tick {
	return Tick{
		PoolId:            id,
		Index:             index,
		LiquidityNet:      math.ZeroInt(),
		LiquidityGross:    fixedpoint.Zero(),
		FeeGrowthOutsideA: fixedpoint.Zero(),
		FeeGrowthOutsideB: fixedpoint.Zero(),
	}
}

// IsInitialized reports whether any position references the tick.
func (t Tick) IsInitialized() bool {
	return !t.LiquidityGross.IsZero()
}

// Normalize replaces missing numeric fields with zero after decoding.
func (t *Tick) Normalize() {
	if t.LiquidityNet.IsNil() {
		t.LiquidityNet = math.ZeroInt()
	}
	t.LiquidityGross = orZero(t.LiquidityGross)
	t.FeeGrowthOutsideA = orZero(t.FeeGrowthOutsideA)
	t.FeeGrowthOutsideB = orZero(t.FeeGrowthOutsideB)
}
