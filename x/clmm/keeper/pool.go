package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// OpenPool creates the pool of an asset pair at an initial square-root
// price. The pool starts without liquidity; its id is derived from the pair.
func (k Keeper) OpenPool(
	ctx context.Context,
	creator sdk.AccAddress,
	assetA, assetB string,
	sqrtPrice *uint256.Int,
	tickSpacing, feeRateBps uint32,
) (types.PoolID, error) {
	// 1. Input validation
	if creator.Empty() {
		return types.PoolID{}, types.ErrInvalidAddress.Wrap("creator cannot be empty")
	}
	if err := types.ValidateAssetPair(assetA, assetB); err != nil {
		return types.PoolID{}, err
	}
	if err := types.ValidatePoolParams(tickSpacing, feeRateBps); err != nil {
		return types.PoolID{}, err
	}
	if sqrtPrice == nil || sqrtPrice.Lt(fixedpoint.MinSqrtPrice()) || !sqrtPrice.Lt(fixedpoint.MaxSqrtPrice()) {
		return types.PoolID{}, types.ErrInvalidSqrtPrice.Wrapf("initial sqrt price %v outside [%s, %s)",
			sqrtPrice, fixedpoint.MinSqrtPrice(), fixedpoint.MaxSqrtPrice())
	}

	// 2. Derive the starting tick from the price
	tick, err := fixedpoint.TickAtSqrtPrice(sqrtPrice)
	if err != nil {
		return types.PoolID{}, err
	}
	pool := types.NewPool(creator, assetA, assetB, sqrtPrice, tick, tickSpacing, feeRateBps)

	release, err := k.lockPool(pool.Id)
	if err != nil {
		return types.PoolID{}, err
	}
	defer release()

	// 3. Check if pool already exists
	t := newTxn(k.db)
	if _, err := t.getPool(pool.Id); err == nil {
		return types.PoolID{}, types.ErrPoolAlreadyExists.Wrapf("pool already exists for asset pair %s/%s", assetA, assetB)
	} else if !errors.Is(err, types.ErrPoolNotFound) {
		return types.PoolID{}, fmt.Errorf("OpenPool: load pool: %w", err)
	}

	// 4. Save pool; opening moves no value so there is nothing to settle
	if err := t.setPool(pool); err != nil {
		return types.PoolID{}, fmt.Errorf("OpenPool: save pool: %w", err)
	}
	if err := k.finish(ctx, t, pool, "open_pool"); err != nil {
		return types.PoolID{}, err
	}

	k.metrics.PoolsTotal.Inc()
	k.emit(sdk.NewEvent(
		types.EventTypePoolOpened,
		sdk.NewAttribute(types.AttributeKeyPoolID, pool.Id.String()),
		sdk.NewAttribute(types.AttributeKeyCreator, creator.String()),
		sdk.NewAttribute(types.AttributeKeyAssetA, assetA),
		sdk.NewAttribute(types.AttributeKeyAssetB, assetB),
		sdk.NewAttribute(types.AttributeKeySqrtPrice, sqrtPrice.Dec()),
		sdk.NewAttribute(types.AttributeKeyTick, fmt.Sprintf("%d", tick)),
		sdk.NewAttribute(types.AttributeKeyTickSpacing, fmt.Sprintf("%d", tickSpacing)),
		sdk.NewAttribute(types.AttributeKeyFeeRate, fmt.Sprintf("%d", feeRateBps)),
	))

	k.Logger().Info("pool opened",
		"pool", pool.Id.String(),
		"asset_a", assetA,
		"asset_b", assetB,
		"tick", tick,
	)
	return pool.Id, nil
}

// GetPool returns a pool by id.
func (k Keeper) GetPool(_ context.Context, id types.PoolID) (types.Pool, error) {
	return newTxn(k.db).getPool(id)
}

// GetPoolByAssets returns the pool of an asset pair given in either order.
func (k Keeper) GetPoolByAssets(ctx context.Context, assetA, assetB string) (types.Pool, error) {
	if assetA > assetB {
		assetA, assetB = assetB, assetA
	}
	return k.GetPool(ctx, types.NewPoolID(assetA, assetB))
}

// IteratePools calls cb for every pool in key order until cb returns true.
func (k Keeper) IteratePools(_ context.Context, cb func(pool types.Pool) (stop bool)) error {
	t := newTxn(k.db)
	return t.iterate(types.PoolKeyPrefix, prefixEnd(types.PoolKeyPrefix), false, func(_, value []byte) (bool, error) {
		var pool types.Pool
		if err := json.Unmarshal(value, &pool); err != nil {
			return true, err
		}
		pool.Normalize()
		return cb(pool), nil
	})
}

// GetAllPools returns every pool.
func (k Keeper) GetAllPools(ctx context.Context) ([]types.Pool, error) {
	pools := []types.Pool{}
	err := k.IteratePools(ctx, func(pool types.Pool) bool {
		pools = append(pools, pool)
		return false
	})
	return pools, err
}
