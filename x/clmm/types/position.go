package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
)

// Position is a liquidity provider's claim on [TickLower, TickUpper) of a pool.
type Position struct {
	Owner                sdk.AccAddress `json:"owner"`
	PoolId               PoolID         `json:"pool_id"`
	TickLower            int32          `json:"tick_lower"`
	TickUpper            int32          `json:"tick_upper"`
	Liquidity            *uint256.Int   `json:"liquidity"`
	FeeGrowthCheckpointA *uint256.Int   `json:"fee_growth_checkpoint_a"`
	FeeGrowthCheckpointB *uint256.Int   `json:"fee_growth_checkpoint_b"`
	TokensOwedA          *uint256.Int   `json:"tokens_owed_a"`
	TokensOwedB          *uint256.Int   `json:"tokens_owed_b"`
}

// NewPosition returns an empty position checkpointed at the given fee growth.
func NewPosition(owner sdk.AccAddress, id PoolID, lower, upper int32, insideA, insideB *uint256.Int) Position {
	return Position{
		Owner:                owner,
		PoolId:               id,
		TickLower:            lower,
		TickUpper:            upper,
		Liquidity:            fixedpoint.Zero(),
		FeeGrowthCheckpointA: insideA.Clone(),
		FeeGrowthCheckpointB: insideB.Clone(),
		TokensOwedA:          fixedpoint.Zero(),
		TokensOwedB:          fixedpoint.Zero(),
	}
}

// IsEmpty reports whether the position holds neither liquidity nor owed tokens.
func (p Position) IsEmpty() bool {
	return p.Liquidity.IsZero() && p.TokensOwedA.IsZero() && p.TokensOwedB.IsZero()
}

// Normalize replaces missing numeric fields with zero after decoding.
func (p *Position) Normalize() {
	p.Liquidity = orZero(p.Liquidity)
	p.FeeGrowthCheckpointA = orZero(p.FeeGrowthCheckpointA)
	p.FeeGrowthCheckpointB = orZero(p.FeeGrowthCheckpointB)
	p.TokensOwedA = orZero(p.TokensOwedA)
	p.TokensOwedB = orZero(p.TokensOwedB)
}
