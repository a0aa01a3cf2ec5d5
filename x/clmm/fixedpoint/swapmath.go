package fixedpoint

import (
	"github.com/holiman/uint256"
)

// FeeDenominator is the denominator of fee rates expressed in basis points.
const FeeDenominator = 10_000

// SwapStep is the result of advancing the price within a single range of
// constant liquidity.
type SwapStep struct {
	SqrtPriceNext *uint256.Int
	AmountIn      *uint256.Int
	AmountOut     *uint256.Int
	FeeAmount     *uint256.Int
}

// ComputeSwapStep advances the price from sqrtCurrent toward sqrtTarget with
// the given liquidity. amountRemaining is the input still to be spent when
// exactIn is set, and the output still to be received otherwise. The
// direction is implied by the two prices: a target at or below the current
// price is an A to B step.
//
// The fee is taken from the input before it moves the price. When the step
// stops short of the target in exact-in mode, everything not consumed by the
// price move is kept as fee.
func ComputeSwapStep(
	sqrtCurrent, sqrtTarget, liquidity, amountRemaining *uint256.Int,
	feeRateBps uint32,
	exactIn bool,
) (SwapStep, error) {
	if feeRateBps >= FeeDenominator {
		return SwapStep{}, ErrOverflow.Wrapf("fee rate %d bps", feeRateBps)
	}

	aToB := !sqrtCurrent.Lt(sqrtTarget)
	feeRate := uint256.NewInt(uint64(feeRateBps))
	denom := uint256.NewInt(FeeDenominator)
	complement := new(uint256.Int).Sub(denom, feeRate)

	var (
		step SwapStep
		err  error
	)

	if exactIn {
		lessFee, err := MulDiv(amountRemaining, complement, denom)
		if err != nil {
			return SwapStep{}, err
		}
		step.AmountIn, err = stepAmountIn(sqrtTarget, sqrtCurrent, liquidity, aToB)
		if err != nil {
			return SwapStep{}, err
		}
		if !lessFee.Lt(step.AmountIn) {
			step.SqrtPriceNext = sqrtTarget.Clone()
		} else if step.SqrtPriceNext, err = NextSqrtPriceFromInput(sqrtCurrent, liquidity, lessFee, aToB); err != nil {
			return SwapStep{}, err
		}
	} else {
		step.AmountOut, err = stepAmountOut(sqrtTarget, sqrtCurrent, liquidity, aToB)
		if err != nil {
			return SwapStep{}, err
		}
		if !amountRemaining.Lt(step.AmountOut) {
			step.SqrtPriceNext = sqrtTarget.Clone()
		} else if step.SqrtPriceNext, err = NextSqrtPriceFromOutput(sqrtCurrent, liquidity, amountRemaining, aToB); err != nil {
			return SwapStep{}, err
		}
	}

	reached := step.SqrtPriceNext.Eq(sqrtTarget)

	if !(reached && exactIn) {
		if step.AmountIn, err = stepAmountIn(step.SqrtPriceNext, sqrtCurrent, liquidity, aToB); err != nil {
			return SwapStep{}, err
		}
	}
	if !(reached && !exactIn) {
		if step.AmountOut, err = stepAmountOut(step.SqrtPriceNext, sqrtCurrent, liquidity, aToB); err != nil {
			return SwapStep{}, err
		}
	}

	if !exactIn && step.AmountOut.Gt(amountRemaining) {
		step.AmountOut = amountRemaining.Clone()
	}

	if exactIn && !reached {
		if step.FeeAmount, err = CheckedSub(amountRemaining, step.AmountIn); err != nil {
			return SwapStep{}, err
		}
	} else if step.FeeAmount, err = MulDivRoundingUp(step.AmountIn, feeRate, complement); err != nil {
		return SwapStep{}, err
	}

	return step, nil
}

// stepAmountIn is the input needed to move between the two prices, rounded up.
func stepAmountIn(sqrtA, sqrtB, liquidity *uint256.Int, aToB bool) (*uint256.Int, error) {
	if aToB {
		return AmountADelta(sqrtA, sqrtB, liquidity, true)
	}
	return AmountBDelta(sqrtA, sqrtB, liquidity, true)
}

// stepAmountOut is the output released between the two prices, rounded down.
func stepAmountOut(sqrtA, sqrtB, liquidity *uint256.Int, aToB bool) (*uint256.Int, error) {
	if aToB {
		return AmountBDelta(sqrtA, sqrtB, liquidity, false)
	}
	return AmountADelta(sqrtA, sqrtB, liquidity, false)
}
