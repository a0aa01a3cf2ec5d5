package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/paw-clmm/x/ledger/types"
)

// InitGenesis mints every genesis balance.
func (k *Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	for _, b := range genState.Balances {
		if b.Coins.IsZero() {
			continue
		}
		addr := sdk.MustAccAddressFromBech32(b.Address)
		if err := k.MintCoins(ctx, addr, b.Coins); err != nil {
			return fmt.Errorf("InitGenesis: balance of %s: %w", b.Address, err)
		}
	}
	return nil
}

// ExportGenesis returns every nonzero balance, ordered by account.
func (k *Keeper) ExportGenesis(_ context.Context) (*types.GenesisState, error) {
	it, err := dbm.IteratePrefix(k.db, types.BalanceKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	defer it.Close()

	genesis := types.DefaultGenesis()
	for ; it.Valid(); it.Next() {
		addr, denom, err := types.ParseBalanceKey(it.Key())
		if err != nil {
			return nil, fmt.Errorf("ExportGenesis: %w", err)
		}
		var amount math.Int
		if err := amount.Unmarshal(it.Value()); err != nil {
			return nil, fmt.Errorf("ExportGenesis: balance of %s: %w", addr, err)
		}

		coin := sdk.NewCoin(denom, amount)
		last := len(genesis.Balances) - 1
		if last >= 0 && genesis.Balances[last].Address == addr.String() {
			genesis.Balances[last].Coins = genesis.Balances[last].Coins.Add(coin)
			continue
		}
		genesis.Balances = append(genesis.Balances, types.Balance{Address: addr.String(), Coins: sdk.NewCoins(coin)})
	}
	return genesis, it.Error()
}
