package fixedpoint

import (
	"github.com/holiman/uint256"
)

const (
	// MinTick is the lowest tick whose square-root price is representable.
	MinTick int32 = -443636
	// MaxTick is the highest tick whose square-root price is representable.
	MaxTick int32 = 443636
)

var (
	minSqrtPrice = uint256.NewInt(4295048016)
	maxSqrtPrice = uint256.MustFromDecimal("79226673521066979257578248091")

	// sqrt(1.0001)^-(2^i) in Q64.64 for i = 1..18. Bit 0 is handled separately.
	tickRatios = [...]uint64{
		18444899583751176192,
		18443055278223355904,
		18439367220385607680,
		18431993317065453568,
		18417254355718170624,
		18387811781193609216,
		18329067761203558400,
		18212142134806163456,
		17980523815641700352,
		17526086738831433728,
		16651378430235570176,
		15030750278694412288,
		12247334978884435968,
		8131365268886854656,
		3584323654725218816,
		696457651848324352,
		26294789957507116,
		37481735321082,
	}
)

// MinSqrtPrice returns the square-root price at MinTick.
func MinSqrtPrice() *uint256.Int { return minSqrtPrice.Clone() }

// MaxSqrtPrice returns the square-root price at MaxTick.
func MaxSqrtPrice() *uint256.Int { return maxSqrtPrice.Clone() }

// SqrtPriceAtTick returns sqrt(1.0001^tick) as a Q64.64 value.
func SqrtPriceAtTick(tick int32) (*uint256.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, ErrInvalidTick.Wrapf("tick %d outside [%d, %d]", tick, MinTick, MaxTick)
	}

	abs := uint32(tick)
	if tick < 0 {
		abs = uint32(-tick)
	}

	ratio := q64.Clone()
	if abs&1 != 0 {
		ratio.SetUint64(18445821805675395072)
	}
	var factor uint256.Int
	for i, r := range tickRatios {
		if abs&(1<<(i+1)) != 0 {
			ratio.Mul(ratio, factor.SetUint64(r))
			ratio.Rsh(ratio, Resolution)
		}
	}

	if tick > 0 {
		ratio.Div(maxU128, ratio)
	}
	return ratio, nil
}

// TickAtSqrtPrice returns the greatest tick t such that
// SqrtPriceAtTick(t) <= sqrtPrice.
func TickAtSqrtPrice(sqrtPrice *uint256.Int) (int32, error) {
	if sqrtPrice.Lt(minSqrtPrice) || sqrtPrice.Gt(maxSqrtPrice) {
		return 0, ErrInvalidSqrtPrice.Wrapf("%s outside [%s, %s]", sqrtPrice, minSqrtPrice, maxSqrtPrice)
	}

	lo, hi := MinTick, MaxTick
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		p, err := SqrtPriceAtTick(mid)
		if err != nil {
			return 0, err
		}
		if p.Gt(sqrtPrice) {
			hi = mid - 1
		} else {
			lo = mid
		}
	}
	return lo, nil
}

// MaxLiquidityPerTick returns the largest gross liquidity a single tick may
// reference for the given spacing, so that the sum over every usable tick
// still fits in 128 bits.
func MaxLiquidityPerTick(tickSpacing uint32) *uint256.Int {
	spacing := int32(tickSpacing)
	minTick := (MinTick / spacing) * spacing
	maxTick := (MaxTick / spacing) * spacing
	numTicks := uint64((maxTick-minTick)/spacing) + 1
	return new(uint256.Int).Div(maxU128, uint256.NewInt(numTicks))
}
