package types

import (
	"cosmossdk.io/math"
	"github.com/holiman/uint256"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
)

// GenesisState is the exported state of the module.
type GenesisState struct {
	Pools     []Pool     `json:"pools"`
	Ticks     []Tick     `json:"ticks"`
	Positions []Position `json:"positions"`
}

// DefaultGenesis returns an empty genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Pools:     []Pool{},
		Ticks:     []Tick{},
		Positions: []Position{},
	}
}

// Normalize replaces missing numeric fields with zero after decoding.
func (gs *GenesisState) Normalize() {
	for i := range gs.Pools {
		gs.Pools[i].Normalize()
	}
	for i := range gs.Ticks {
		gs.Ticks[i].Normalize()
	}
	for i := range gs.Positions {
		gs.Positions[i].Normalize()
	}
}

type tickRef struct {
	pool  PoolID
	index int32
}

// Validate ensures the genesis state is well-formed and that tick and
// position records agree with each other.
func (gs GenesisState) Validate() error {
	pools := make(map[PoolID]Pool, len(gs.Pools))
	for _, p := range gs.Pools {
		if _, dup := pools[p.Id]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate pool %s", p.Id)
		}
		if err := p.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("pool %s: %s", p.Id, err)
		}
		pools[p.Id] = p
	}

	ticks := make(map[tickRef]Tick, len(gs.Ticks))
	for _, t := range gs.Ticks {
		pool, ok := pools[t.PoolId]
		if !ok {
			return ErrInvalidGenesis.Wrapf("tick %d references unknown pool %s", t.Index, t.PoolId)
		}
		ref := tickRef{t.PoolId, t.Index}
		if _, dup := ticks[ref]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate tick %d in pool %s", t.Index, t.PoolId)
		}
		if t.Index%int32(pool.TickSpacing) != 0 || t.Index < fixedpoint.MinTick || t.Index > fixedpoint.MaxTick {
			return ErrInvalidGenesis.Wrapf("tick %d invalid for pool %s", t.Index, t.PoolId)
		}
		if !t.IsInitialized() {
			return ErrInvalidGenesis.Wrapf("tick %d in pool %s has no liquidity", t.Index, t.PoolId)
		}
		ticks[ref] = t
	}

	// recompute tick liquidity from positions
	gross := make(map[tickRef]*uint256.Int)
	net := make(map[tickRef]math.Int)
	type positionRef struct {
		pool         PoolID
		owner        string
		lower, upper int32
	}
	seen := make(map[positionRef]struct{}, len(gs.Positions))
	for _, p := range gs.Positions {
		pool, ok := pools[p.PoolId]
		if !ok {
			return ErrInvalidGenesis.Wrapf("position references unknown pool %s", p.PoolId)
		}
		if p.Owner.Empty() {
			return ErrInvalidGenesis.Wrap("position owner cannot be empty")
		}
		key := positionRef{p.PoolId, p.Owner.String(), p.TickLower, p.TickUpper}
		if _, dup := seen[key]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate position %s [%d, %d) in pool %s", p.Owner, p.TickLower, p.TickUpper, p.PoolId)
		}
		seen[key] = struct{}{}
		if err := pool.ValidateTickRange(p.TickLower, p.TickUpper); err != nil {
			return ErrInvalidGenesis.Wrapf("position %s: %s", p.Owner, err)
		}
		if p.Liquidity.IsZero() {
			continue
		}
		liquidity := fixedpoint.ToInt(p.Liquidity)
		for _, end := range []struct {
			index int32
			delta math.Int
		}{{p.TickLower, liquidity}, {p.TickUpper, liquidity.Neg()}} {
			ref := tickRef{p.PoolId, end.index}
			if _, ok := gross[ref]; !ok {
				gross[ref] = fixedpoint.Zero()
				net[ref] = math.ZeroInt()
			}
			gross[ref] = new(uint256.Int).Add(gross[ref], p.Liquidity)
			net[ref] = net[ref].Add(end.delta)
		}
	}

	if len(gross) != len(ticks) {
		return ErrInvalidGenesis.Wrapf("%d ticks stored but positions reference %d", len(ticks), len(gross))
	}
	for ref, t := range ticks {
		g, ok := gross[ref]
		if !ok || !g.Eq(t.LiquidityGross) || !net[ref].Equal(t.LiquidityNet) {
			return ErrInvalidGenesis.Wrapf("tick %d in pool %s disagrees with its positions", ref.index, ref.pool)
		}
	}

	// active liquidity is the sum of net liquidity at or below the current tick
	active := make(map[PoolID]math.Int, len(pools))
	for ref, t := range ticks {
		if ref.index <= pools[ref.pool].CurrentTick {
			sum, ok := active[ref.pool]
			if !ok {
				sum = math.ZeroInt()
			}
			active[ref.pool] = sum.Add(t.LiquidityNet)
		}
	}
	for id, pool := range pools {
		sum, ok := active[id]
		if !ok {
			sum = math.ZeroInt()
		}
		if !sum.Equal(fixedpoint.ToInt(pool.ActiveLiquidity)) {
			return ErrInvalidGenesis.Wrapf("pool %s active liquidity %s, ticks sum to %s", id, pool.ActiveLiquidity, sum)
		}
	}
	return nil
}
