package keeper

import (
	"encoding/json"

	"cosmossdk.io/math"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// getOrCreateTick returns the tick at index, or a zero-initialized tick when
// none is stored. The new tick is not written until it is updated.
func (k Keeper) getOrCreateTick(t *txn, id types.PoolID, index int32) (types.Tick, error) {
	tick, found, err := t.getTick(id, index)
	if err != nil {
		return tick, err
	}
	if !found {
		return types.NewTick(id, index), nil
	}
	return tick, nil
}

// updateTick applies a position's liquidity change at one of its boundary
// ticks. delta is signed: positive when liquidity is added. Net liquidity
// grows by delta at a lower tick and shrinks by delta at an upper tick. A
// tick that becomes referenced for the first time at or below the current
// tick assumes all fee growth so far happened below it. A tick no longer
// referenced by any position is pruned.
func (k Keeper) updateTick(t *txn, pool types.Pool, index int32, delta math.Int, upper bool) error {
	tick, err := k.getOrCreateTick(t, pool.Id, index)
	if err != nil {
		return err
	}

	grossAfter, err := fixedpoint.AddDelta(tick.LiquidityGross, delta)
	if err != nil {
		return types.ErrInvalidLiquidityAmount.Wrapf("tick %d gross liquidity: %s", index, err)
	}
	if limit := fixedpoint.MaxLiquidityPerTick(pool.TickSpacing); grossAfter.Gt(limit) {
		return types.ErrInvalidLiquidityAmount.Wrapf("tick %d gross liquidity %s exceeds %s", index, grossAfter, limit)
	}

	if tick.LiquidityGross.IsZero() && index <= pool.CurrentTick {
		tick.FeeGrowthOutsideA = pool.FeeGrowthGlobalA.Clone()
		tick.FeeGrowthOutsideB = pool.FeeGrowthGlobalB.Clone()
	}

	if upper {
		tick.LiquidityNet = tick.LiquidityNet.Sub(delta)
	} else {
		tick.LiquidityNet = tick.LiquidityNet.Add(delta)
	}
	tick.LiquidityGross = grossAfter

	if !tick.IsInitialized() {
		_, err := k.pruneTick(t, tick)
		return err
	}
	return t.setTick(tick)
}

// pruneTick deletes the tick when no position references it.
func (k Keeper) pruneTick(t *txn, tick types.Tick) (bool, error) {
	if tick.IsInitialized() {
		return false, nil
	}
	if !tick.LiquidityNet.IsZero() {
		return false, types.ErrInvalidLiquidityAmount.Wrapf("tick %d has no gross liquidity but net %s", tick.Index, tick.LiquidityNet)
	}
	t.deleteTick(tick.PoolId, tick.Index)
	return true, nil
}

// crossTick moves the price across an initialized tick. The tick's outside
// fee growth flips to the other side of the price, and its net liquidity is
// added to the active liquidity when crossing upward and subtracted when
// crossing downward.
func (k Keeper) crossTick(t *txn, pool *types.Pool, index int32, dir types.Direction) error {
	tick, found, err := t.getTick(pool.Id, index)
	if err != nil {
		return err
	}
	if !found {
		return types.ErrTickNotFound.Wrapf("crossing tick %d of pool %s", index, pool.Id)
	}

	tick.FeeGrowthOutsideA = fixedpoint.WrappingSub128(pool.FeeGrowthGlobalA, tick.FeeGrowthOutsideA)
	tick.FeeGrowthOutsideB = fixedpoint.WrappingSub128(pool.FeeGrowthGlobalB, tick.FeeGrowthOutsideB)

	delta := tick.LiquidityNet
	if dir == types.DirectionAToB {
		delta = delta.Neg()
	}
	active, err := fixedpoint.AddDelta(pool.ActiveLiquidity, delta)
	if err != nil {
		return types.ErrTickNotFound.Wrapf("crossing tick %d leaves active liquidity %s negative by %s", index, pool.ActiveLiquidity, delta)
	}
	pool.ActiveLiquidity = active

	return t.setTick(tick)
}

// nextInitializedTick returns the nearest initialized tick the price meets
// when moving in dir from the current tick: the greatest tick at or below
// current when the price moves down, the least tick above it when it moves
// up.
func (k Keeper) nextInitializedTick(t *txn, id types.PoolID, current int32, dir types.Direction) (int32, bool, error) {
	prefix := types.GetTickPrefix(id)
	var start, end []byte
	reverse := dir == types.DirectionAToB
	if reverse {
		start, end = prefix, types.GetTickKey(id, current+1)
	} else {
		start, end = types.GetTickKey(id, current+1), prefixEnd(prefix)
	}

	var (
		next  int32
		found bool
	)
	err := t.iterate(start, end, reverse, func(key, _ []byte) (bool, error) {
		next = types.DecodeTickIndex(key[len(prefix):])
		found = true
		return true, nil
	})
	return next, found, err
}

// ticksOf returns every initialized tick of a pool in ascending order.
func (k Keeper) ticksOf(t *txn, id types.PoolID) ([]types.Tick, error) {
	prefix := types.GetTickPrefix(id)
	var ticks []types.Tick
	err := t.iterate(prefix, prefixEnd(prefix), false, func(_, value []byte) (bool, error) {
		var tick types.Tick
		if err := json.Unmarshal(value, &tick); err != nil {
			return true, err
		}
		tick.Normalize()
		ticks = append(ticks, tick)
		return false, nil
	})
	return ticks, err
}
