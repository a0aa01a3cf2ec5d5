package keeper

import (
	"github.com/holiman/uint256"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// growthInside returns global - below - above for one asset, where below and
// above are the fee growth on the far side of each boundary as seen from the
// current tick. All arithmetic wraps modulo 2^128.
func growthInside(current int32, global *uint256.Int, lower types.Tick, lowerOutside *uint256.Int, upper types.Tick, upperOutside *uint256.Int) *uint256.Int {
	below := lowerOutside
	if current < lower.Index {
		below = fixedpoint.WrappingSub128(global, lowerOutside)
	}
	above := upperOutside
	if current >= upper.Index {
		above = fixedpoint.WrappingSub128(global, upperOutside)
	}
	return fixedpoint.WrappingSub128(fixedpoint.WrappingSub128(global, below), above)
}

// feeGrowthInside returns the fee growth per unit of liquidity accrued inside
// [lower, upper) for asset A and asset B.
func (k Keeper) feeGrowthInside(t *txn, pool types.Pool, lowerIndex, upperIndex int32) (*uint256.Int, *uint256.Int, error) {
	lower, err := k.getOrCreateTick(t, pool.Id, lowerIndex)
	if err != nil {
		return nil, nil, err
	}
	upper, err := k.getOrCreateTick(t, pool.Id, upperIndex)
	if err != nil {
		return nil, nil, err
	}

	insideA := growthInside(pool.CurrentTick, pool.FeeGrowthGlobalA, lower, lower.FeeGrowthOutsideA, upper, upper.FeeGrowthOutsideA)
	insideB := growthInside(pool.CurrentTick, pool.FeeGrowthGlobalB, lower, lower.FeeGrowthOutsideB, upper, upper.FeeGrowthOutsideB)
	return insideA, insideB, nil
}

// pendingFees returns the fees a position earned since its checkpoint:
// (inside - checkpoint) * liquidity, as Q64.64 divided back to units.
func pendingFees(pos types.Position, insideA, insideB *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	q64 := fixedpoint.Q64()
	feesA, err := fixedpoint.MulDiv(fixedpoint.WrappingSub128(insideA, pos.FeeGrowthCheckpointA), pos.Liquidity, q64)
	if err != nil {
		return nil, nil, err
	}
	feesB, err := fixedpoint.MulDiv(fixedpoint.WrappingSub128(insideB, pos.FeeGrowthCheckpointB), pos.Liquidity, q64)
	if err != nil {
		return nil, nil, err
	}
	return feesA, feesB, nil
}

// accrueFees moves the fees earned since the checkpoint into the position's
// owed tokens and advances the checkpoint. It must run before the position's
// liquidity changes.
func accrueFees(pos *types.Position, insideA, insideB *uint256.Int) error {
	feesA, feesB, err := pendingFees(*pos, insideA, insideB)
	if err != nil {
		return err
	}
	owedA, err := fixedpoint.CheckedAdd128(pos.TokensOwedA, feesA)
	if err != nil {
		return err
	}
	owedB, err := fixedpoint.CheckedAdd128(pos.TokensOwedB, feesB)
	if err != nil {
		return err
	}

	pos.TokensOwedA = owedA
	pos.TokensOwedB = owedB
	pos.FeeGrowthCheckpointA = insideA.Clone()
	pos.FeeGrowthCheckpointB = insideB.Clone()
	return nil
}
