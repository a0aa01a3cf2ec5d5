// Package fixedpoint implements the Q64.64 arithmetic used by the CLMM engine.
//
// Square-root prices and per-unit-liquidity fee growth are unsigned Q64.64
// values held in a uint256.Int. Products are formed in 512-bit precision
// (uint256.MulDivOverflow) so that a*b/c never loses the high half of the
// intermediate. Every operation returns a fresh value and never mutates its
// arguments.
package fixedpoint

import (
	"cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// Resolution is the number of fractional bits in a Q64.64 value.
const Resolution = 64

var (
	one     = uint256.NewInt(1)
	q64     = new(uint256.Int).Lsh(one, Resolution)
	maxU128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(one, 128), one)
)

// Q64 returns 2^64, the Q64.64 representation of 1.
func Q64() *uint256.Int { return q64.Clone() }

// MaxU128 returns 2^128 - 1.
func MaxU128() *uint256.Int { return maxU128.Clone() }

// Zero returns a new zero value.
func Zero() *uint256.Int { return new(uint256.Int) }

// MulDiv returns floor(a*b / denom). It fails with ErrOverflow when the
// quotient does not fit in 256 bits.
func MulDiv(a, b, denom *uint256.Int) (*uint256.Int, error) {
	if denom.IsZero() {
		return nil, ErrDivisionByZero.Wrapf("%s * %s / 0", a, b)
	}
	z, overflow := new(uint256.Int).MulDivOverflow(a, b, denom)
	if overflow {
		return nil, ErrOverflow.Wrapf("%s * %s / %s", a, b, denom)
	}
	return z, nil
}

// MulDivRoundingUp returns ceil(a*b / denom).
func MulDivRoundingUp(a, b, denom *uint256.Int) (*uint256.Int, error) {
	z, err := MulDiv(a, b, denom)
	if err != nil {
		return nil, err
	}
	if new(uint256.Int).MulMod(a, b, denom).IsZero() {
		return z, nil
	}
	if _, overflow := z.AddOverflow(z, one); overflow {
		return nil, ErrOverflow.Wrapf("ceil(%s * %s / %s)", a, b, denom)
	}
	return z, nil
}

// ShiftDiv returns (value << shift) / denom. The shift is always applied
// before the division. Fee growth per unit of liquidity is computed as
// ShiftDiv(fee, Resolution, liquidity).
func ShiftDiv(value *uint256.Int, shift uint, denom *uint256.Int) (*uint256.Int, error) {
	if denom.IsZero() {
		return nil, ErrDivisionByZero.Wrapf("(%s << %d) / 0", value, shift)
	}
	shifted, err := ShiftLeft(value, shift)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Div(shifted, denom), nil
}

// ShiftLeft returns value << shift, failing when bits would be lost.
func ShiftLeft(value *uint256.Int, shift uint) (*uint256.Int, error) {
	if !value.IsZero() && value.BitLen()+int(shift) > 256 {
		return nil, ErrOverflow.Wrapf("%s << %d", value, shift)
	}
	return new(uint256.Int).Lsh(value, shift), nil
}

// DivRoundingUp returns ceil(a / b).
func DivRoundingUp(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivisionByZero.Wrapf("ceil(%s / 0)", a)
	}
	z := new(uint256.Int).Div(a, b)
	if !new(uint256.Int).Mod(a, b).IsZero() {
		z.Add(z, one)
	}
	return z, nil
}

// WrappingSub128 returns (a - b) mod 2^128. Fee growth accumulators are
// compared with wrapping arithmetic so that a counter that has wrapped still
// yields the correct difference.
func WrappingSub128(a, b *uint256.Int) *uint256.Int {
	z := new(uint256.Int).Sub(a, b)
	return z.And(z, maxU128)
}

// WrappingAdd128 returns (a + b) mod 2^128.
func WrappingAdd128(a, b *uint256.Int) *uint256.Int {
	z := new(uint256.Int).Add(a, b)
	return z.And(z, maxU128)
}

// CheckedAdd128 returns a + b, failing when the sum exceeds 2^128 - 1.
func CheckedAdd128(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow || z.Gt(maxU128) {
		return nil, ErrOverflow.Wrapf("%s + %s exceeds u128", a, b)
	}
	return z, nil
}

// CheckedSub returns a - b, failing when b > a.
func CheckedSub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrOverflow.Wrapf("%s - %s underflows", a, b)
	}
	return z, nil
}

// CheckU128 fails when x does not fit in 128 bits.
func CheckU128(x *uint256.Int) error {
	if x.Gt(maxU128) {
		return ErrOverflow.Wrapf("%s exceeds u128", x)
	}
	return nil
}

// AddDelta applies a signed liquidity delta to an unsigned u128 amount.
func AddDelta(x *uint256.Int, delta math.Int) (*uint256.Int, error) {
	abs, err := FromInt(delta.Abs())
	if err != nil {
		return nil, err
	}
	if delta.IsNegative() {
		return CheckedSub(x, abs)
	}
	return CheckedAdd128(x, abs)
}

// FromInt converts a non-negative math.Int into a uint256.Int.
func FromInt(i math.Int) (*uint256.Int, error) {
	if i.IsNil() {
		return Zero(), nil
	}
	if i.IsNegative() {
		return nil, ErrNegative.Wrapf("%s", i)
	}
	z, overflow := uint256.FromBig(i.BigInt())
	if overflow {
		return nil, ErrOverflow.Wrapf("%s exceeds 256 bits", i)
	}
	return z, nil
}

// ToInt converts x into a math.Int.
func ToInt(x *uint256.Int) math.Int {
	if x == nil {
		return math.ZeroInt()
	}
	return math.NewIntFromBigInt(x.ToBig())
}

// Min returns the smaller of a and b.
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a.Clone()
	}
	return b.Clone()
}
