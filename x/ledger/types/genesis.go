package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Balance is the holdings of one account.
type Balance struct {
	Address string    `json:"address"`
	Coins   sdk.Coins `json:"coins"`
}

// GenesisState is the exported state of the ledger.
type GenesisState struct {
	Balances []Balance `json:"balances"`
}

// DefaultGenesis returns a ledger with no balances.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Balances: []Balance{}}
}

// Validate checks addresses and coins and rejects duplicate accounts.
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Balances))
	for _, b := range gs.Balances {
		addr, err := sdk.AccAddressFromBech32(b.Address)
		if err != nil {
			return ErrInvalidAddress.Wrapf("%s: %s", b.Address, err)
		}
		if _, dup := seen[addr.String()]; dup {
			return ErrInvalidAddress.Wrapf("duplicate balance for %s", b.Address)
		}
		seen[addr.String()] = struct{}{}
		if err := b.Coins.Validate(); err != nil {
			return ErrInvalidCoins.Wrapf("%s: %s", b.Address, err)
		}
	}
	return nil
}
