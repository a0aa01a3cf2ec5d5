package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
)

const (
	// MaxTickSpacing bounds tick_spacing so a range always spans a usable number of ticks.
	MaxTickSpacing uint32 = 16384
	// MaxFeeRateBps is the highest accepted fee rate.
	MaxFeeRateBps uint32 = 1_000
)

// Pool is the root record of one asset pair.
type Pool struct {
	Id               PoolID         `json:"id"`
	AssetA           string         `json:"asset_a"`
	AssetB           string         `json:"asset_b"`
	VaultA           sdk.AccAddress `json:"vault_a"`
	VaultB           sdk.AccAddress `json:"vault_b"`
	Creator          sdk.AccAddress `json:"creator"`
	SqrtPrice        *uint256.Int   `json:"sqrt_price"`
	CurrentTick      int32          `json:"current_tick"`
	TickSpacing      uint32         `json:"tick_spacing"`
	ActiveLiquidity  *uint256.Int   `json:"active_liquidity"`
	FeeRateBps       uint32         `json:"fee_rate_bps"`
	FeeGrowthGlobalA *uint256.Int   `json:"fee_growth_global_a"`
	FeeGrowthGlobalB *uint256.Int   `json:"fee_growth_global_b"`
}

// NewPool returns a pool with no liquidity at the given price.
func NewPool(creator sdk.AccAddress, assetA, assetB string, sqrtPrice *uint256.Int, tick int32, tickSpacing, feeRateBps uint32) Pool {
	id := NewPoolID(assetA, assetB)
	return Pool{
		Id:               id,
		AssetA:           assetA,
		AssetB:           assetB,
		VaultA:           VaultAddress(id, assetA),
		VaultB:           VaultAddress(id, assetB),
		Creator:          creator,
		SqrtPrice:        sqrtPrice.Clone(),
		CurrentTick:      tick,
		TickSpacing:      tickSpacing,
		ActiveLiquidity:  fixedpoint.Zero(),
		FeeRateBps:       feeRateBps,
		FeeGrowthGlobalA: fixedpoint.Zero(),
		FeeGrowthGlobalB: fixedpoint.Zero(),
	}
}

// ValidateAssetPair checks that both assets are valid denominations in
// canonical order.
func ValidateAssetPair(assetA, assetB string) error {
	if err := sdk.ValidateDenom(assetA); err != nil {
		return ErrInvalidAssetPair.Wrapf("asset a: %s", err)
	}
	if err := sdk.ValidateDenom(assetB); err != nil {
		return ErrInvalidAssetPair.Wrapf("asset b: %s", err)
	}
	if assetA >= assetB {
		return ErrInvalidAssetPair.Wrapf("assets must be ordered and distinct: %s >= %s", assetA, assetB)
	}
	return nil
}

// ValidatePoolParams checks tick spacing and fee rate.
func ValidatePoolParams(tickSpacing, feeRateBps uint32) error {
	if tickSpacing == 0 || tickSpacing > MaxTickSpacing {
		return ErrInvalidSpacing.Wrapf("tick spacing %d not in [1, %d]", tickSpacing, MaxTickSpacing)
	}
	if feeRateBps > MaxFeeRateBps {
		return ErrInvalidFeeRate.Wrapf("fee rate %d bps exceeds %d", feeRateBps, MaxFeeRateBps)
	}
	return nil
}

// Validate performs stateless checks of a pool record.
func (p Pool) Validate() error {
	if err := ValidateAssetPair(p.AssetA, p.AssetB); err != nil {
		return err
	}
	if p.Id != NewPoolID(p.AssetA, p.AssetB) {
		return ErrInvalidPoolID.Wrapf("%s does not match pair %s/%s", p.Id, p.AssetA, p.AssetB)
	}
	if !p.VaultA.Equals(VaultAddress(p.Id, p.AssetA)) || !p.VaultB.Equals(VaultAddress(p.Id, p.AssetB)) {
		return ErrInvalidAddress.Wrapf("vaults of pool %s are not derived from the pool", p.Id)
	}
	if err := ValidatePoolParams(p.TickSpacing, p.FeeRateBps); err != nil {
		return err
	}
	tick, err := fixedpoint.TickAtSqrtPrice(p.SqrtPrice)
	if err != nil {
		return err
	}
	if tick != p.CurrentTick && !p.onCrossedTick(tick) {
		return ErrInvalidSqrtPrice.Wrapf("current tick %d does not contain sqrt price %s", p.CurrentTick, p.SqrtPrice)
	}
	return fixedpoint.CheckU128(p.ActiveLiquidity)
}

// onCrossedTick reports whether the pool rests exactly on the boundary of
// tick, which a downward crossing left it below.
func (p Pool) onCrossedTick(tick int32) bool {
	if tick != p.CurrentTick+1 {
		return false
	}
	boundary, err := fixedpoint.SqrtPriceAtTick(tick)
	return err == nil && p.SqrtPrice.Eq(boundary)
}

// ValidateTickRange checks that [lower, upper) is usable in this pool.
func (p Pool) ValidateTickRange(lower, upper int32) error {
	if lower >= upper {
		return ErrInvalidTickRange.Wrapf("lower %d must be below upper %d", lower, upper)
	}
	if lower < fixedpoint.MinTick || upper > fixedpoint.MaxTick {
		return ErrInvalidTickRange.Wrapf("[%d, %d) outside [%d, %d]", lower, upper, fixedpoint.MinTick, fixedpoint.MaxTick)
	}
	spacing := int32(p.TickSpacing)
	if lower%spacing != 0 || upper%spacing != 0 {
		return ErrInvalidTickRange.Wrapf("[%d, %d) not aligned to spacing %d", lower, upper, spacing)
	}
	return nil
}

// InRange reports whether a position over [lower, upper) is active at the
// current tick.
func (p Pool) InRange(lower, upper int32) bool {
	return lower <= p.CurrentTick && p.CurrentTick < upper
}

// SwapAssets returns the input and output denominations of a swap.
func (p Pool) SwapAssets(dir Direction) (string, string) {
	if dir == DirectionAToB {
		return p.AssetA, p.AssetB
	}
	return p.AssetB, p.AssetA
}

// SwapVaults returns the vaults receiving input and paying output of a swap.
func (p Pool) SwapVaults(dir Direction) (sdk.AccAddress, sdk.AccAddress) {
	if dir == DirectionAToB {
		return p.VaultA, p.VaultB
	}
	return p.VaultB, p.VaultA
}

// Normalize replaces missing numeric fields with zero after decoding.
func (p *Pool) Normalize() {
	p.SqrtPrice = orZero(p.SqrtPrice)
	p.ActiveLiquidity = orZero(p.ActiveLiquidity)
	p.FeeGrowthGlobalA = orZero(p.FeeGrowthGlobalA)
	p.FeeGrowthGlobalB = orZero(p.FeeGrowthGlobalB)
}

func orZero(x *uint256.Int) *uint256.Int {
	if x == nil {
		return fixedpoint.Zero()
	}
	return x
}
