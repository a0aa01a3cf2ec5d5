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

// Invariant checks a property of the committed state. It returns a
// formatted report and whether the property is broken.
type Invariant func(ctx context.Context) (string, bool)

// InvariantRoute names a registered invariant.
type InvariantRoute struct {
	Name      string
	Invariant Invariant
}

// Invariants returns all CLMM invariants in the order they are checked.
func Invariants(k Keeper) []InvariantRoute {
	return []InvariantRoute{
		{"active-liquidity", ActiveLiquidityInvariant(k)},
		{"tick-liquidity", TickLiquidityInvariant(k)},
		{"vault-solvency", VaultSolvencyInvariant(k)},
	}
}

// AllInvariants runs all invariants of the CLMM module
func AllInvariants(k Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var res string
		for _, route := range Invariants(k) {
			var stop bool
			if res, stop = route.Invariant(ctx); stop {
				return res, stop
			}
		}
		return res, false
	}
}

// ActiveLiquidityInvariant checks that each pool's active liquidity equals
// the net liquidity of its ticks at or below the current tick.
func ActiveLiquidityInvariant(k Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		t := newTxn(k.db)
		pools, err := k.GetAllPools(ctx)
		for _, pool := range pools {
			ticks, err := k.ticksOf(t, pool.Id)
			if err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %s\n", pool.Id, err)
				continue
			}
			sum := math.ZeroInt()
			for _, tick := range ticks {
				if tick.Index <= pool.CurrentTick {
					sum = sum.Add(tick.LiquidityNet)
				}
			}
			if !sum.Equal(fixedpoint.ToInt(pool.ActiveLiquidity)) {
				count++
				msg += fmt.Sprintf("pool %s: active liquidity %s != tick net sum %s at tick %d\n",
					pool.Id, pool.ActiveLiquidity, sum, pool.CurrentTick)
			}
		}
		if err != nil {
			count++
			msg += fmt.Sprintf("loading pools: %s\n", err)
		}

		return sdk.FormatInvariant(
			types.ModuleName, "active-liquidity",
			fmt.Sprintf("found %d pools with inconsistent active liquidity\n%s", count, msg),
		), count != 0
	}
}

// TickLiquidityInvariant checks that every tick's gross and net liquidity
// match the positions bounded by it, and that no unreferenced tick is kept.
func TickLiquidityInvariant(k Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		t := newTxn(k.db)
		pools, err := k.GetAllPools(ctx)
		for _, pool := range pools {
			positions, err := positionsUnder(t, types.GetPositionPoolPrefix(pool.Id))
			if err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %s\n", pool.Id, err)
				continue
			}
			gross := make(map[int32]*uint256.Int)
			net := make(map[int32]math.Int)
			for _, pos := range positions {
				if pos.Liquidity.IsZero() {
					continue
				}
				liquidity := fixedpoint.ToInt(pos.Liquidity)
				for index, delta := range map[int32]math.Int{pos.TickLower: liquidity, pos.TickUpper: liquidity.Neg()} {
					if _, ok := gross[index]; !ok {
						gross[index] = fixedpoint.Zero()
						net[index] = math.ZeroInt()
					}
					gross[index] = new(uint256.Int).Add(gross[index], pos.Liquidity)
					net[index] = net[index].Add(delta)
				}
			}

			ticks, err := k.ticksOf(t, pool.Id)
			if err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %s\n", pool.Id, err)
				continue
			}
			for _, tick := range ticks {
				g, ok := gross[tick.Index]
				if !ok || !g.Eq(tick.LiquidityGross) || !net[tick.Index].Equal(tick.LiquidityNet) {
					count++
					msg += fmt.Sprintf("pool %s tick %d: gross %s net %s, positions give %v %v\n",
						pool.Id, tick.Index, tick.LiquidityGross, tick.LiquidityNet, g, net[tick.Index])
				}
				delete(gross, tick.Index)
			}
			for index := range gross {
				count++
				msg += fmt.Sprintf("pool %s tick %d: referenced by positions but not stored\n", pool.Id, index)
			}
		}
		if err != nil {
			count++
			msg += fmt.Sprintf("loading pools: %s\n", err)
		}

		return sdk.FormatInvariant(
			types.ModuleName, "tick-liquidity",
			fmt.Sprintf("found %d ticks disagreeing with positions\n%s", count, msg),
		), count != 0
	}
}

// VaultSolvencyInvariant checks that each pool vault holds at least what
// its positions could withdraw now: principal at the current price plus owed
// and pending fees.
func VaultSolvencyInvariant(k Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		t := newTxn(k.db)
		pools, err := k.GetAllPools(ctx)
		for _, pool := range pools {
			claimA, claimB, err := k.poolClaims(t, pool)
			if err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %s\n", pool.Id, err)
				continue
			}
			balanceA := k.bankKeeper.GetBalance(ctx, pool.VaultA, pool.AssetA)
			balanceB := k.bankKeeper.GetBalance(ctx, pool.VaultB, pool.AssetB)
			if balanceA.Amount.LT(claimA) {
				count++
				msg += fmt.Sprintf("pool %s: vault %s (%s) < claims (%s)\n", pool.Id, pool.AssetA, balanceA.Amount, claimA)
			}
			if balanceB.Amount.LT(claimB) {
				count++
				msg += fmt.Sprintf("pool %s: vault %s (%s) < claims (%s)\n", pool.Id, pool.AssetB, balanceB.Amount, claimB)
			}
		}
		if err != nil {
			count++
			msg += fmt.Sprintf("loading pools: %s\n", err)
		}

		return sdk.FormatInvariant(
			types.ModuleName, "vault-solvency",
			fmt.Sprintf("found %d under-collateralized vaults\n%s", count, msg),
		), count != 0
	}
}

// poolClaims sums what every position of a pool could withdraw and collect.
func (k Keeper) poolClaims(t *txn, pool types.Pool) (math.Int, math.Int, error) {
	positions, err := positionsUnder(t, types.GetPositionPoolPrefix(pool.Id))
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	claimA, claimB := math.ZeroInt(), math.ZeroInt()
	for _, pos := range positions {
		owedA, owedB := pos.TokensOwedA, pos.TokensOwedB
		if !pos.Liquidity.IsZero() {
			insideA, insideB, err := k.feeGrowthInside(t, pool, pos.TickLower, pos.TickUpper)
			if err != nil {
				return math.Int{}, math.Int{}, err
			}
			if err := accrueFees(&pos, insideA, insideB); err != nil {
				return math.Int{}, math.Int{}, err
			}
			owedA, owedB = pos.TokensOwedA, pos.TokensOwedB
		}
		amountA, amountB, err := amountsForLiquidity(pool, pos.TickLower, pos.TickUpper, pos.Liquidity, false)
		if err != nil {
			return math.Int{}, math.Int{}, err
		}
		claimA = claimA.Add(fixedpoint.ToInt(amountA)).Add(fixedpoint.ToInt(owedA))
		claimB = claimB.Add(fixedpoint.ToInt(amountB)).Add(fixedpoint.ToInt(owedB))
	}
	return claimA, claimB, nil
}

// CheckInvariants runs every invariant and fails with the first broken one.
func (k Keeper) CheckInvariants(ctx context.Context) error {
	if res, broken := AllInvariants(k)(ctx); broken {
		k.Logger().Error("invariant broken", "report", res)
		return fmt.Errorf("%s", res)
	}
	return nil
}
