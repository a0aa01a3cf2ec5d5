package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// amountsForLiquidity returns the token amounts backing liquidity over
// [lower, upper) at the pool's price. Below the range the position is all
// asset A, above it all asset B, inside it a split at the current price.
func amountsForLiquidity(pool types.Pool, lower, upper int32, liquidity *uint256.Int, roundUp bool) (*uint256.Int, *uint256.Int, error) {
	sqrtLower, err := fixedpoint.SqrtPriceAtTick(lower)
	if err != nil {
		return nil, nil, err
	}
	sqrtUpper, err := fixedpoint.SqrtPriceAtTick(upper)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case pool.CurrentTick < lower:
		amountA, err := fixedpoint.AmountADelta(sqrtLower, sqrtUpper, liquidity, roundUp)
		return amountA, fixedpoint.Zero(), err
	case pool.CurrentTick < upper:
		amountA, err := fixedpoint.AmountADelta(pool.SqrtPrice, sqrtUpper, liquidity, roundUp)
		if err != nil {
			return nil, nil, err
		}
		amountB, err := fixedpoint.AmountBDelta(sqrtLower, pool.SqrtPrice, liquidity, roundUp)
		return amountA, amountB, err
	default:
		amountB, err := fixedpoint.AmountBDelta(sqrtLower, sqrtUpper, liquidity, roundUp)
		return fixedpoint.Zero(), amountB, err
	}
}

// AddLiquidity opens a position over [lower, upper) or adds liquidity to an
// existing one. The owner pays the returned amounts into the pool vaults;
// each is rounded up and must not exceed its maximum.
func (k Keeper) AddLiquidity(
	ctx context.Context,
	owner sdk.AccAddress,
	poolID types.PoolID,
	lower, upper int32,
	liquidityDelta math.Int,
	amountAMax, amountBMax math.Int,
) (math.Int, math.Int, error) {
	release, err := k.lockPool(poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	defer release()

	amountA, amountB, err := k.addLiquidity(ctx, owner, poolID, lower, upper, liquidityDelta, amountAMax, amountBMax)
	k.metrics.LiquidityOps.WithLabelValues(poolID.String(), "add", status(err)).Inc()
	return amountA, amountB, err
}

func (k Keeper) addLiquidity(
	ctx context.Context,
	owner sdk.AccAddress,
	poolID types.PoolID,
	lower, upper int32,
	liquidityDelta math.Int,
	amountAMax, amountBMax math.Int,
) (math.Int, math.Int, error) {
	// 1. Input validation
	if owner.Empty() {
		return math.Int{}, math.Int{}, types.ErrInvalidAddress.Wrap("owner cannot be empty")
	}
	if liquidityDelta.IsNil() || !liquidityDelta.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrZeroLiquidity.Wrapf("liquidity delta %v", liquidityDelta)
	}
	delta, err := fixedpoint.FromInt(liquidityDelta)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := fixedpoint.CheckU128(delta); err != nil {
		return math.Int{}, math.Int{}, err
	}
	maxA, err := fixedpoint.FromInt(amountAMax)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrZeroAmount.Wrapf("amount a max: %s", err)
	}
	maxB, err := fixedpoint.FromInt(amountBMax)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrZeroAmount.Wrapf("amount b max: %s", err)
	}

	t := newTxn(k.db)
	pool, err := t.getPool(poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := pool.ValidateTickRange(lower, upper); err != nil {
		return math.Int{}, math.Int{}, err
	}

	// 2. Amounts owed by the provider, checked against the maximums
	amountA, amountB, err := amountsForLiquidity(pool, lower, upper, delta, true)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if amountA.Gt(maxA) || amountB.Gt(maxB) {
		return math.Int{}, math.Int{}, types.ErrSlippageExceeded.Wrapf(
			"required %s/%s exceeds max %s/%s", amountA, amountB, maxA, maxB,
		)
	}

	// 3. Boundary ticks
	signed := fixedpoint.ToInt(delta)
	if err := k.updateTick(t, pool, lower, signed, false); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := k.updateTick(t, pool, upper, signed, true); err != nil {
		return math.Int{}, math.Int{}, err
	}

	// 4. Position: settle fees at the old liquidity, then grow it
	insideA, insideB, err := k.feeGrowthInside(t, pool, lower, upper)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	pos, found, err := t.getPosition(poolID, owner, lower, upper)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if !found {
		pos = types.NewPosition(owner, poolID, lower, upper, insideA, insideB)
	}
	if err := accrueFees(&pos, insideA, insideB); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if pos.Liquidity, err = fixedpoint.CheckedAdd128(pos.Liquidity, delta); err != nil {
		return math.Int{}, math.Int{}, err
	}

	// 5. Active liquidity
	if pool.InRange(lower, upper) {
		if pool.ActiveLiquidity, err = fixedpoint.CheckedAdd128(pool.ActiveLiquidity, delta); err != nil {
			return math.Int{}, math.Int{}, err
		}
	}

	if err := t.setPosition(pos); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := t.setPool(pool); err != nil {
		return math.Int{}, math.Int{}, err
	}

	// 6. Settle and commit
	if err := k.finish(ctx, t, pool, "add_liquidity",
		deposit(pool, owner, pool.AssetA, amountA),
		deposit(pool, owner, pool.AssetB, amountB),
	); err != nil {
		return math.Int{}, math.Int{}, err
	}

	if !found {
		k.metrics.PositionsTotal.WithLabelValues(poolID.String()).Inc()
	}
	k.emit(positionEvent(types.EventTypeLiquidityAdded, pos,
		sdk.NewAttribute(types.AttributeKeyLiquidity, delta.Dec()),
		sdk.NewAttribute(types.AttributeKeyAmountA, amountA.Dec()),
		sdk.NewAttribute(types.AttributeKeyAmountB, amountB.Dec()),
	))
	return fixedpoint.ToInt(amountA), fixedpoint.ToInt(amountB), nil
}

// RemoveLiquidity withdraws liquidity from a position. Fees earned so far
// are settled into the position's owed tokens before the liquidity changes;
// the principal, rounded down, is paid to the owner.
func (k Keeper) RemoveLiquidity(
	ctx context.Context,
	owner sdk.AccAddress,
	poolID types.PoolID,
	lower, upper int32,
	liquidityDelta math.Int,
) (math.Int, math.Int, error) {
	release, err := k.lockPool(poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	defer release()

	amountA, amountB, err := k.removeLiquidity(ctx, owner, poolID, lower, upper, liquidityDelta)
	k.metrics.LiquidityOps.WithLabelValues(poolID.String(), "remove", status(err)).Inc()
	return amountA, amountB, err
}

func (k Keeper) removeLiquidity(
	ctx context.Context,
	owner sdk.AccAddress,
	poolID types.PoolID,
	lower, upper int32,
	liquidityDelta math.Int,
) (math.Int, math.Int, error) {
	// 1. Input validation
	if liquidityDelta.IsNil() || !liquidityDelta.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrZeroLiquidity.Wrapf("liquidity delta %v", liquidityDelta)
	}
	delta, err := fixedpoint.FromInt(liquidityDelta)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	t := newTxn(k.db)
	pool, err := t.getPool(poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	pos, err := loadPosition(t, poolID, owner, lower, upper)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if delta.Gt(pos.Liquidity) {
		return math.Int{}, math.Int{}, types.ErrInvalidLiquidityAmount.Wrapf(
			"removing %s from a position holding %s", delta, pos.Liquidity,
		)
	}

	// 2. Settle fees at the old liquidity, then shrink it
	insideA, insideB, err := k.feeGrowthInside(t, pool, lower, upper)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := accrueFees(&pos, insideA, insideB); err != nil {
		return math.Int{}, math.Int{}, err
	}
	pos.Liquidity = new(uint256.Int).Sub(pos.Liquidity, delta)

	// 3. Boundary ticks, pruned once unreferenced
	signed := fixedpoint.ToInt(delta).Neg()
	if err := k.updateTick(t, pool, lower, signed, false); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := k.updateTick(t, pool, upper, signed, true); err != nil {
		return math.Int{}, math.Int{}, err
	}

	// 4. Active liquidity
	if pool.InRange(lower, upper) {
		if pool.ActiveLiquidity, err = fixedpoint.CheckedSub(pool.ActiveLiquidity, delta); err != nil {
			return math.Int{}, math.Int{}, types.ErrInvalidLiquidityAmount.Wrapf("active liquidity: %s", err)
		}
	}

	amountA, amountB, err := amountsForLiquidity(pool, lower, upper, delta, false)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	if err := t.setPosition(pos); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := t.setPool(pool); err != nil {
		return math.Int{}, math.Int{}, err
	}

	// 5. Settle and commit
	if err := k.finish(ctx, t, pool, "remove_liquidity",
		withdraw(pool, owner, pool.AssetA, amountA),
		withdraw(pool, owner, pool.AssetB, amountB),
	); err != nil {
		return math.Int{}, math.Int{}, err
	}

	k.emit(positionEvent(types.EventTypeLiquidityRemoved, pos,
		sdk.NewAttribute(types.AttributeKeyLiquidity, delta.Dec()),
		sdk.NewAttribute(types.AttributeKeyAmountA, amountA.Dec()),
		sdk.NewAttribute(types.AttributeKeyAmountB, amountB.Dec()),
	))
	return fixedpoint.ToInt(amountA), fixedpoint.ToInt(amountB), nil
}

// CollectFees pays a position's owed tokens to its owner. Fees earned since
// the last settlement are accrued first. Liquidity is never touched.
func (k Keeper) CollectFees(
	ctx context.Context,
	owner sdk.AccAddress,
	poolID types.PoolID,
	lower, upper int32,
) (math.Int, math.Int, error) {
	release, err := k.lockPool(poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	defer release()

	amountA, amountB, err := k.collectFees(ctx, owner, poolID, lower, upper)
	k.metrics.LiquidityOps.WithLabelValues(poolID.String(), "collect", status(err)).Inc()
	return amountA, amountB, err
}

func (k Keeper) collectFees(
	ctx context.Context,
	owner sdk.AccAddress,
	poolID types.PoolID,
	lower, upper int32,
) (math.Int, math.Int, error) {
	t := newTxn(k.db)
	pool, err := t.getPool(poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	pos, err := loadPosition(t, poolID, owner, lower, upper)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	if !pos.Liquidity.IsZero() {
		insideA, insideB, err := k.feeGrowthInside(t, pool, lower, upper)
		if err != nil {
			return math.Int{}, math.Int{}, err
		}
		if err := accrueFees(&pos, insideA, insideB); err != nil {
			return math.Int{}, math.Int{}, err
		}
	}

	amountA, amountB := pos.TokensOwedA, pos.TokensOwedB
	pos.TokensOwedA = fixedpoint.Zero()
	pos.TokensOwedB = fixedpoint.Zero()
	if err := t.setPosition(pos); err != nil {
		return math.Int{}, math.Int{}, err
	}

	if err := k.finish(ctx, t, pool, "collect_fees",
		withdraw(pool, owner, pool.AssetA, amountA),
		withdraw(pool, owner, pool.AssetB, amountB),
	); err != nil {
		return math.Int{}, math.Int{}, err
	}

	k.emit(positionEvent(types.EventTypeFeesCollected, pos,
		sdk.NewAttribute(types.AttributeKeyAmountA, amountA.Dec()),
		sdk.NewAttribute(types.AttributeKeyAmountB, amountB.Dec()),
	))
	return fixedpoint.ToInt(amountA), fixedpoint.ToInt(amountB), nil
}

// ClosePosition deletes a position that holds no liquidity and is owed
// nothing.
func (k Keeper) ClosePosition(
	ctx context.Context,
	owner sdk.AccAddress,
	poolID types.PoolID,
	lower, upper int32,
) error {
	release, err := k.lockPool(poolID)
	if err != nil {
		return err
	}
	defer release()

	err = k.closePosition(ctx, owner, poolID, lower, upper)
	k.metrics.LiquidityOps.WithLabelValues(poolID.String(), "close", status(err)).Inc()
	return err
}

func (k Keeper) closePosition(
	ctx context.Context,
	owner sdk.AccAddress,
	poolID types.PoolID,
	lower, upper int32,
) error {
	t := newTxn(k.db)
	pool, err := t.getPool(poolID)
	if err != nil {
		return err
	}
	pos, err := loadPosition(t, poolID, owner, lower, upper)
	if err != nil {
		return err
	}
	if !pos.IsEmpty() {
		return types.ErrPositionNotEmpty.Wrapf(
			"liquidity %s, owed %s/%s", pos.Liquidity, pos.TokensOwedA, pos.TokensOwedB,
		)
	}

	t.deletePosition(pos)
	if err := k.finish(ctx, t, pool, "close_position"); err != nil {
		return err
	}

	k.metrics.PositionsTotal.WithLabelValues(poolID.String()).Dec()
	k.emit(positionEvent(types.EventTypePositionClosed, pos))
	return nil
}

// loadPosition returns the position or ErrPositionNotFound.
func loadPosition(t *txn, poolID types.PoolID, owner sdk.AccAddress, lower, upper int32) (types.Position, error) {
	pos, found, err := t.getPosition(poolID, owner, lower, upper)
	if err != nil {
		return pos, err
	}
	if !found {
		return pos, types.ErrPositionNotFound.Wrapf("%s [%d, %d) in pool %s", owner, lower, upper, poolID)
	}
	return pos, nil
}

func positionEvent(eventType string, pos types.Position, attrs ...sdk.Attribute) sdk.Event {
	base := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyPoolID, pos.PoolId.String()),
		sdk.NewAttribute(types.AttributeKeyOwner, pos.Owner.String()),
		sdk.NewAttribute(types.AttributeKeyTickLower, fmt.Sprintf("%d", pos.TickLower)),
		sdk.NewAttribute(types.AttributeKeyTickUpper, fmt.Sprintf("%d", pos.TickUpper)),
	}
	return sdk.NewEvent(eventType, append(base, attrs...)...)
}

// status labels an operation outcome for metrics.
func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
