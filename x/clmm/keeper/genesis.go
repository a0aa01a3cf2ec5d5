package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// InitGenesis initializes the clmm module's state from a genesis state. The
// state is validated as a whole and written in one batch.
func (k Keeper) InitGenesis(_ context.Context, genState types.GenesisState) error {
	genState.Normalize()
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}

	t := newTxn(k.db)
	for _, pool := range genState.Pools {
		if _, err := t.getPool(pool.Id); err == nil {
			return types.ErrPoolAlreadyExists.Wrapf("pool %s already in store", pool.Id)
		}
		if err := t.setPool(pool); err != nil {
			return fmt.Errorf("failed to set pool %s: %w", pool.Id, err)
		}
	}
	for _, tick := range genState.Ticks {
		if err := t.setTick(tick); err != nil {
			return fmt.Errorf("failed to set tick %d of pool %s: %w", tick.Index, tick.PoolId, err)
		}
	}
	for _, pos := range genState.Positions {
		if err := t.setPosition(pos); err != nil {
			return fmt.Errorf("failed to set position of %s in pool %s: %w", pos.Owner, pos.PoolId, err)
		}
	}
	if err := t.commit(); err != nil {
		return fmt.Errorf("InitGenesis: commit: %w", err)
	}

	k.metrics.PoolsTotal.Add(float64(len(genState.Pools)))
	for _, pos := range genState.Positions {
		k.metrics.PositionsTotal.WithLabelValues(pos.PoolId.String()).Inc()
	}
	return nil
}

// ExportGenesis returns the clmm module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	genesis := types.DefaultGenesis()

	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: pools: %w", err)
	}
	genesis.Pools = pools

	for _, pool := range pools {
		ticks, err := k.GetTicks(ctx, pool.Id)
		if err != nil {
			return nil, fmt.Errorf("ExportGenesis: ticks of %s: %w", pool.Id, err)
		}
		genesis.Ticks = append(genesis.Ticks, ticks...)

		positions, err := k.GetPoolPositions(ctx, pool.Id)
		if err != nil {
			return nil, fmt.Errorf("ExportGenesis: positions of %s: %w", pool.Id, err)
		}
		genesis.Positions = append(genesis.Positions, positions...)
	}
	return genesis, nil
}
