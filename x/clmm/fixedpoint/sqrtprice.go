package fixedpoint

import (
	"github.com/holiman/uint256"
)

func ordered(a, b *uint256.Int) (*uint256.Int, *uint256.Int) {
	if a.Gt(b) {
		return b, a
	}
	return a, b
}

// AmountADelta returns the amount of asset A spanned by liquidity between
// two square-root prices: L * (sqrtB - sqrtA) / (sqrtA * sqrtB).
func AmountADelta(sqrtA, sqrtB, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	lower, upper := ordered(sqrtA, sqrtB)
	if lower.IsZero() {
		return nil, ErrInvalidSqrtPrice.Wrap("zero sqrt price")
	}

	numerator1, err := ShiftLeft(liquidity, Resolution)
	if err != nil {
		return nil, err
	}
	numerator2 := new(uint256.Int).Sub(upper, lower)

	if roundUp {
		partial, err := MulDivRoundingUp(numerator1, numerator2, upper)
		if err != nil {
			return nil, err
		}
		return DivRoundingUp(partial, lower)
	}

	partial, err := MulDiv(numerator1, numerator2, upper)
	if err != nil {
		return nil, err
	}
	return partial.Div(partial, lower), nil
}

// AmountBDelta returns the amount of asset B spanned by liquidity between
// two square-root prices: L * (sqrtB - sqrtA).
func AmountBDelta(sqrtA, sqrtB, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	lower, upper := ordered(sqrtA, sqrtB)
	diff := new(uint256.Int).Sub(upper, lower)
	if roundUp {
		return MulDivRoundingUp(liquidity, diff, q64)
	}
	return MulDiv(liquidity, diff, q64)
}

// NextSqrtPriceFromAmountARoundingUp returns the price after adding (or
// removing) amount of asset A at the given liquidity. The result is rounded
// up so the price never moves further than the amount pays for.
func NextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	if amount.IsZero() {
		return sqrtPrice.Clone(), nil
	}

	numerator1, err := ShiftLeft(liquidity, Resolution)
	if err != nil {
		return nil, err
	}
	product, overflow := new(uint256.Int).MulOverflow(amount, sqrtPrice)

	if add {
		if !overflow {
			denominator, overflow := new(uint256.Int).AddOverflow(numerator1, product)
			if !overflow {
				return MulDivRoundingUp(numerator1, sqrtPrice, denominator)
			}
		}
		// numerator1 / (numerator1 / sqrtPrice + amount)
		denominator := new(uint256.Int).Div(numerator1, sqrtPrice)
		if _, overflow := denominator.AddOverflow(denominator, amount); overflow {
			return nil, ErrOverflow.Wrap("next sqrt price from asset A input")
		}
		return DivRoundingUp(numerator1, denominator)
	}

	if overflow || !numerator1.Gt(product) {
		return nil, ErrInvalidSqrtPrice.Wrapf("output %s exhausts liquidity %s", amount, liquidity)
	}
	denominator := new(uint256.Int).Sub(numerator1, product)
	return MulDivRoundingUp(numerator1, sqrtPrice, denominator)
}

// NextSqrtPriceFromAmountBRoundingDown returns the price after adding (or
// removing) amount of asset B at the given liquidity, rounded down.
func NextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	if add {
		quotient, err := ShiftDiv(amount, Resolution, liquidity)
		if err != nil {
			return nil, err
		}
		next, overflow := new(uint256.Int).AddOverflow(sqrtPrice, quotient)
		if overflow {
			return nil, ErrOverflow.Wrap("next sqrt price from asset B input")
		}
		return next, nil
	}

	shifted, err := ShiftLeft(amount, Resolution)
	if err != nil {
		return nil, err
	}
	quotient, err := DivRoundingUp(shifted, liquidity)
	if err != nil {
		return nil, err
	}
	if !sqrtPrice.Gt(quotient) {
		return nil, ErrInvalidSqrtPrice.Wrapf("output %s exhausts liquidity %s", amount, liquidity)
	}
	return new(uint256.Int).Sub(sqrtPrice, quotient), nil
}

// NextSqrtPriceFromInput returns the price after amountIn enters the pool.
// When aToB the input is asset A and the price moves down.
func NextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn *uint256.Int, aToB bool) (*uint256.Int, error) {
	if sqrtPrice.IsZero() || liquidity.IsZero() {
		return nil, ErrDivisionByZero.Wrap("next sqrt price from input needs price and liquidity")
	}
	if aToB {
		return NextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amountIn, true)
	}
	return NextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amountIn, true)
}

// NextSqrtPriceFromOutput returns the price after amountOut leaves the pool.
// When aToB the output is asset B and the price moves down.
func NextSqrtPriceFromOutput(sqrtPrice, liquidity, amountOut *uint256.Int, aToB bool) (*uint256.Int, error) {
	if sqrtPrice.IsZero() || liquidity.IsZero() {
		return nil, ErrDivisionByZero.Wrap("next sqrt price from output needs price and liquidity")
	}
	if aToB {
		return NextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amountOut, false)
	}
	return NextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amountOut, false)
}
