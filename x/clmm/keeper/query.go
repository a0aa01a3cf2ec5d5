package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// GetTick returns an initialized tick of a pool.
func (k Keeper) GetTick(_ context.Context, poolID types.PoolID, index int32) (types.Tick, error) {
	tick, found, err := newTxn(k.db).getTick(poolID, index)
	if err != nil {
		return tick, err
	}
	if !found {
		return tick, types.ErrTickNotFound.Wrapf("tick %d of pool %s", index, poolID)
	}
	return tick, nil
}

// GetTicks returns the initialized ticks of a pool in ascending order.
func (k Keeper) GetTicks(_ context.Context, poolID types.PoolID) ([]types.Tick, error) {
	t := newTxn(k.db)
	if _, err := t.getPool(poolID); err != nil {
		return nil, err
	}
	return k.ticksOf(t, poolID)
}

// GetPosition returns the position (owner, pool, lower, upper).
func (k Keeper) GetPosition(_ context.Context, owner sdk.AccAddress, poolID types.PoolID, lower, upper int32) (types.Position, error) {
	return loadPosition(newTxn(k.db), poolID, owner, lower, upper)
}

// GetOwnerPositions returns the positions of an owner in a pool.
func (k Keeper) GetOwnerPositions(_ context.Context, owner sdk.AccAddress, poolID types.PoolID) ([]types.Position, error) {
	return positionsUnder(newTxn(k.db), types.GetPositionOwnerPrefix(poolID, owner))
}

// GetPoolPositions returns every position of a pool.
func (k Keeper) GetPoolPositions(_ context.Context, poolID types.PoolID) ([]types.Position, error) {
	return positionsUnder(newTxn(k.db), types.GetPositionPoolPrefix(poolID))
}

// PreviewFees returns what CollectFees would pay the position now.
func (k Keeper) PreviewFees(_ context.Context, owner sdk.AccAddress, poolID types.PoolID, lower, upper int32) (math.Int, math.Int, error) {
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
	return fixedpoint.ToInt(pos.TokensOwedA), fixedpoint.ToInt(pos.TokensOwedB), nil
}

func positionsUnder(t *txn, prefix []byte) ([]types.Position, error) {
	positions := []types.Position{}
	err := t.iterate(prefix, prefixEnd(prefix), false, func(_, value []byte) (bool, error) {
		var pos types.Position
		if err := json.Unmarshal(value, &pos); err != nil {
			return true, err
		}
		pos.Normalize()
		positions = append(positions, pos)
		return false, nil
	})
	return positions, err
}
