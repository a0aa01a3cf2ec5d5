package keeper

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// swapRequest is one swap to run against a pool.
type swapRequest struct {
	dir types.Direction
	// amount is the input to spend when exactIn is set and the output to
	// receive otherwise.
	amount  *uint256.Int
	exactIn bool
	limit   *uint256.Int
}

// swapOutcome accumulates the steps of a swap. amountIn includes fees.
type swapOutcome struct {
	amountIn  *uint256.Int
	amountOut *uint256.Int
	fee       *uint256.Int
	remaining *uint256.Int
	crossed   []int32
	steps     uint32
}

func (o swapOutcome) result(pool types.Pool) types.SwapResult {
	return types.SwapResult{
		AmountIn:     fixedpoint.ToInt(o.amountIn),
		AmountOut:    fixedpoint.ToInt(o.amountOut),
		FeeAmount:    fixedpoint.ToInt(o.fee),
		SqrtPrice:    pool.SqrtPrice.Clone(),
		CurrentTick:  pool.CurrentTick,
		TicksCrossed: uint32(len(o.crossed)),
		Steps:        o.steps,
	}
}

// SwapExactIn sells amountIn of the input asset of dir. The price stops at
// sqrtPriceLimit when it is set; a zero or nil limit means the price bound
// of the direction. When liquidity runs out first only part of amountIn is
// spent, and the result reports what was.
func (k Keeper) SwapExactIn(
	ctx context.Context,
	trader sdk.AccAddress,
	poolID types.PoolID,
	dir types.Direction,
	amountIn, minAmountOut, sqrtPriceLimit math.Int,
) (types.SwapResult, error) {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return types.SwapResult{}, types.ErrZeroAmount.Wrap("amount in must be positive")
	}
	minOut, err := fixedpoint.FromInt(minAmountOut)
	if err != nil {
		return types.SwapResult{}, types.ErrZeroAmount.Wrapf("min amount out: %s", err)
	}
	return k.swap(ctx, trader, poolID, dir, amountIn, sqrtPriceLimit, true, func(out swapOutcome) error {
		if out.amountOut.IsZero() {
			return types.ErrInsufficientLiquidity.Wrap("swap produces no output")
		}
		if out.amountOut.Lt(minOut) {
			return types.ErrSlippageExceeded.Wrapf("output %s below minimum %s", out.amountOut, minOut)
		}
		return nil
	})
}

// SwapExactOut buys exactly amountOut of the output asset of dir, paying at
// most maxAmountIn.
func (k Keeper) SwapExactOut(
	ctx context.Context,
	trader sdk.AccAddress,
	poolID types.PoolID,
	dir types.Direction,
	amountOut, maxAmountIn, sqrtPriceLimit math.Int,
) (types.SwapResult, error) {
	if amountOut.IsNil() || !amountOut.IsPositive() {
		return types.SwapResult{}, types.ErrZeroAmount.Wrap("amount out must be positive")
	}
	maxIn, err := fixedpoint.FromInt(maxAmountIn)
	if err != nil {
		return types.SwapResult{}, types.ErrZeroAmount.Wrapf("max amount in: %s", err)
	}
	return k.swap(ctx, trader, poolID, dir, amountOut, sqrtPriceLimit, false, func(out swapOutcome) error {
		if !out.remaining.IsZero() {
			return types.ErrInsufficientLiquidity.Wrapf("%s of the requested output unfilled", out.remaining)
		}
		if out.amountIn.Gt(maxIn) {
			return types.ErrSlippageExceeded.Wrapf("input %s above maximum %s", out.amountIn, maxIn)
		}
		return nil
	})
}

// SimulateSwap runs a swap against the committed state without settling or
// storing anything. Bounds on the result are left to the caller.
func (k Keeper) SimulateSwap(
	_ context.Context,
	poolID types.PoolID,
	dir types.Direction,
	amount math.Int,
	exactIn bool,
	sqrtPriceLimit math.Int,
) (types.SwapResult, error) {
	t := newTxn(k.db)
	pool, req, err := k.prepareSwap(t, poolID, dir, amount, sqrtPriceLimit, exactIn)
	if err != nil {
		return types.SwapResult{}, err
	}
	out, err := k.computeSwap(t, &pool, req)
	if err != nil {
		return types.SwapResult{}, err
	}
	return out.result(pool), nil
}

func (k Keeper) swap(
	ctx context.Context,
	trader sdk.AccAddress,
	poolID types.PoolID,
	dir types.Direction,
	amount, sqrtPriceLimit math.Int,
	exactIn bool,
	check func(swapOutcome) error,
) (result types.SwapResult, err error) {
	start := time.Now()
	mode := "exact_in"
	if !exactIn {
		mode = "exact_out"
	}
	defer func() {
		k.metrics.SwapLatency.Observe(time.Since(start).Seconds())
		k.metrics.SwapsTotal.WithLabelValues(poolID.String(), dir.String(), mode, status(err)).Inc()
	}()

	if trader.Empty() {
		return types.SwapResult{}, types.ErrInvalidAddress.Wrap("trader cannot be empty")
	}

	release, err := k.lockPool(poolID)
	if err != nil {
		return types.SwapResult{}, err
	}
	defer release()

	// 1. Validate and load
	t := newTxn(k.db)
	pool, req, err := k.prepareSwap(t, poolID, dir, amount, sqrtPriceLimit, exactIn)
	if err != nil {
		return types.SwapResult{}, err
	}

	// 2. Walk the price, staging tick crossings and fee growth
	out, err := k.computeSwap(t, &pool, req)
	if err != nil {
		return types.SwapResult{}, err
	}
	if err := check(out); err != nil {
		return types.SwapResult{}, err
	}
	if err := t.setPool(pool); err != nil {
		return types.SwapResult{}, err
	}

	// 3. Settle and commit
	denomIn, denomOut := pool.SwapAssets(dir)
	if err := k.finish(ctx, t, pool, "swap",
		deposit(pool, trader, denomIn, out.amountIn),
		withdraw(pool, trader, denomOut, out.amountOut),
	); err != nil {
		return types.SwapResult{}, err
	}

	result = out.result(pool)
	k.recordSwap(pool, trader, dir, denomIn, out, result)
	return result, nil
}

// prepareSwap validates a swap request against the pool it targets.
func (k Keeper) prepareSwap(
	t *txn,
	poolID types.PoolID,
	dir types.Direction,
	amount, sqrtPriceLimit math.Int,
	exactIn bool,
) (types.Pool, swapRequest, error) {
	if err := dir.Validate(); err != nil {
		return types.Pool{}, swapRequest{}, err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.Pool{}, swapRequest{}, types.ErrZeroAmount.Wrapf("swap amount %v", amount)
	}
	value, err := fixedpoint.FromInt(amount)
	if err != nil {
		return types.Pool{}, swapRequest{}, err
	}
	if err := fixedpoint.CheckU128(value); err != nil {
		return types.Pool{}, swapRequest{}, err
	}

	pool, err := t.getPool(poolID)
	if err != nil {
		return types.Pool{}, swapRequest{}, err
	}
	limit, err := priceLimit(pool, dir, sqrtPriceLimit)
	if err != nil {
		return types.Pool{}, swapRequest{}, err
	}
	return pool, swapRequest{dir: dir, amount: value, exactIn: exactIn, limit: limit}, nil
}

// priceLimit resolves the price a swap may not move past. An explicit
// limit must lie strictly on the side of the current price the swap moves
// toward and within the representable range.
func priceLimit(pool types.Pool, dir types.Direction, limit math.Int) (*uint256.Int, error) {
	if limit.IsNil() || limit.IsZero() {
		if dir == types.DirectionAToB {
			return fixedpoint.MinSqrtPrice(), nil
		}
		return fixedpoint.MaxSqrtPrice(), nil
	}

	value, err := fixedpoint.FromInt(limit)
	if err != nil {
		return nil, types.ErrInvalidSqrtPrice.Wrapf("price limit: %s", err)
	}
	if dir == types.DirectionAToB {
		if !value.Lt(pool.SqrtPrice) || value.Lt(fixedpoint.MinSqrtPrice()) {
			return nil, types.ErrInvalidSqrtPrice.Wrapf("price limit %s not in [%s, %s)", value, fixedpoint.MinSqrtPrice(), pool.SqrtPrice)
		}
	} else if !value.Gt(pool.SqrtPrice) || value.Gt(fixedpoint.MaxSqrtPrice()) {
		return nil, types.ErrInvalidSqrtPrice.Wrapf("price limit %s not in (%s, %s]", value, pool.SqrtPrice, fixedpoint.MaxSqrtPrice())
	}
	return value, nil
}

// computeSwap moves the pool price in steps of constant liquidity until the
// requested amount is exhausted, the price limit is reached, or no liquidity
// is left in the swap direction. Each step ends either inside a range or on
// the next initialized tick, which is then crossed. Pool fields and crossed
// ticks are updated in place and in the overlay.
func (k Keeper) computeSwap(t *txn, pool *types.Pool, req swapRequest) (swapOutcome, error) {
	out := swapOutcome{
		amountIn:  fixedpoint.Zero(),
		amountOut: fixedpoint.Zero(),
		fee:       fixedpoint.Zero(),
		remaining: req.amount.Clone(),
	}
	aToB := req.dir == types.DirectionAToB

	for !out.remaining.IsZero() && !pool.SqrtPrice.Eq(req.limit) {
		if out.steps >= k.maxSteps {
			return out, types.ErrInsufficientLiquidity.Wrapf("swap needs more than %d steps", k.maxSteps)
		}

		next, found, err := k.nextInitializedTick(t, pool.Id, pool.CurrentTick, req.dir)
		if err != nil {
			return out, err
		}
		if !found {
			if !pool.ActiveLiquidity.IsZero() {
				return out, types.ErrTickNotFound.Wrapf(
					"active liquidity %s at tick %d has no bounding tick toward %s",
					pool.ActiveLiquidity, pool.CurrentTick, req.dir,
				)
			}
			break
		}

		sqrtNext, err := fixedpoint.SqrtPriceAtTick(next)
		if err != nil {
			return out, err
		}
		target := sqrtNext
		if (aToB && sqrtNext.Lt(req.limit)) || (!aToB && sqrtNext.Gt(req.limit)) {
			target = req.limit
		}

		step, err := fixedpoint.ComputeSwapStep(pool.SqrtPrice, target, pool.ActiveLiquidity, out.remaining, pool.FeeRateBps, req.exactIn)
		if err != nil {
			return out, err
		}
		out.steps++

		if err := out.apply(step, req.exactIn); err != nil {
			return out, err
		}
		if !step.FeeAmount.IsZero() && !pool.ActiveLiquidity.IsZero() {
			growth, err := fixedpoint.ShiftDiv(step.FeeAmount, fixedpoint.Resolution, pool.ActiveLiquidity)
			if err != nil {
				return out, err
			}
			if aToB {
				pool.FeeGrowthGlobalA, err = fixedpoint.CheckedAdd128(pool.FeeGrowthGlobalA, growth)
			} else {
				pool.FeeGrowthGlobalB, err = fixedpoint.CheckedAdd128(pool.FeeGrowthGlobalB, growth)
			}
			if err != nil {
				return out, err
			}
		}

		moved := !step.SqrtPriceNext.Eq(pool.SqrtPrice)
		pool.SqrtPrice = step.SqrtPriceNext
		switch {
		case step.SqrtPriceNext.Eq(sqrtNext):
			if err := k.crossTick(t, pool, next, req.dir); err != nil {
				return out, err
			}
			out.crossed = append(out.crossed, next)
			if aToB {
				pool.CurrentTick = next - 1
			} else {
				pool.CurrentTick = next
			}
		case moved:
			if pool.CurrentTick, err = fixedpoint.TickAtSqrtPrice(pool.SqrtPrice); err != nil {
				return out, err
			}
		}
	}
	return out, nil
}

// apply adds a step to the running totals.
func (o *swapOutcome) apply(step fixedpoint.SwapStep, exactIn bool) error {
	paid := new(uint256.Int).Add(step.AmountIn, step.FeeAmount)
	var err error
	if exactIn {
		o.remaining, err = fixedpoint.CheckedSub(o.remaining, paid)
	} else {
		o.remaining, err = fixedpoint.CheckedSub(o.remaining, fixedpoint.Min(step.AmountOut, o.remaining))
	}
	if err != nil {
		return err
	}
	if o.amountIn, err = fixedpoint.CheckedAdd128(o.amountIn, paid); err != nil {
		return err
	}
	if o.amountOut, err = fixedpoint.CheckedAdd128(o.amountOut, step.AmountOut); err != nil {
		return err
	}
	o.fee, err = fixedpoint.CheckedAdd128(o.fee, step.FeeAmount)
	return err
}

// recordSwap emits the events and metrics of a committed swap.
func (k Keeper) recordSwap(pool types.Pool, trader sdk.AccAddress, dir types.Direction, denomIn string, out swapOutcome, result types.SwapResult) {
	poolID := pool.Id.String()
	k.metrics.SwapVolume.WithLabelValues(poolID, denomIn).Add(toFloat(out.amountIn))
	k.metrics.SwapFeesCollected.WithLabelValues(poolID, denomIn).Add(toFloat(out.fee))
	k.metrics.SwapSteps.Observe(float64(out.steps))
	k.metrics.TicksCrossed.WithLabelValues(poolID).Add(float64(len(out.crossed)))

	events := make([]sdk.Event, 0, len(out.crossed)+1)
	for _, index := range out.crossed {
		events = append(events, sdk.NewEvent(
			types.EventTypeTickCrossed,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyTick, fmt.Sprintf("%d", index)),
			sdk.NewAttribute(types.AttributeKeyDirection, dir.String()),
		))
	}
	events = append(events, sdk.NewEvent(
		types.EventTypeSwap,
		sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
		sdk.NewAttribute(types.AttributeKeyTrader, trader.String()),
		sdk.NewAttribute(types.AttributeKeyDirection, dir.String()),
		sdk.NewAttribute(types.AttributeKeyAmountIn, result.AmountIn.String()),
		sdk.NewAttribute(types.AttributeKeyAmountOut, result.AmountOut.String()),
		sdk.NewAttribute(types.AttributeKeyFee, result.FeeAmount.String()),
		sdk.NewAttribute(types.AttributeKeySqrtPrice, result.SqrtPrice.Dec()),
		sdk.NewAttribute(types.AttributeKeyTick, fmt.Sprintf("%d", result.CurrentTick)),
		sdk.NewAttribute(types.AttributeKeyTicksCrossed, fmt.Sprintf("%d", result.TicksCrossed)),
	))
	k.emit(events...)
}

func toFloat(x *uint256.Int) float64 {
	f, _ := new(big.Float).SetInt(x.ToBig()).Float64()
	return f
}
