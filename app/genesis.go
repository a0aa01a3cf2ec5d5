package app

import (
	"encoding/json"
	"fmt"

	clmmtypes "github.com/paw-chain/paw-clmm/x/clmm/types"
	ledgertypes "github.com/paw-chain/paw-clmm/x/ledger/types"
)

// GenesisState is the genesis state of the application, keyed by module.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState returns empty state for every module.
func NewDefaultGenesisState() GenesisState {
	genesis, err := NewGenesisState(ledgertypes.DefaultGenesis(), clmmtypes.DefaultGenesis())
	if err != nil {
		panic(err)
	}
	return genesis
}

// NewGenesisState encodes the state of each module.
func NewGenesisState(ledgerGenesis *ledgertypes.GenesisState, clmmGenesis *clmmtypes.GenesisState) (GenesisState, error) {
	genesis := make(GenesisState, len(ModuleNames))
	for name, state := range map[string]any{
		ledgertypes.ModuleName: ledgerGenesis,
		clmmtypes.ModuleName:   clmmGenesis,
	} {
		bz, err := json.Marshal(state)
		if err != nil {
			return nil, fmt.Errorf("encoding %s genesis: %w", name, err)
		}
		genesis[name] = bz
	}
	return genesis, nil
}

// Decode returns the state of each module. A missing module gets its
// default state.
func (gs GenesisState) Decode() (*ledgertypes.GenesisState, *clmmtypes.GenesisState, error) {
	ledgerGenesis := ledgertypes.DefaultGenesis()
	if bz, ok := gs[ledgertypes.ModuleName]; ok {
		if err := json.Unmarshal(bz, ledgerGenesis); err != nil {
			return nil, nil, fmt.Errorf("decoding %s genesis: %w", ledgertypes.ModuleName, err)
		}
	}
	clmmGenesis := clmmtypes.DefaultGenesis()
	if bz, ok := gs[clmmtypes.ModuleName]; ok {
		if err := json.Unmarshal(bz, clmmGenesis); err != nil {
			return nil, nil, fmt.Errorf("decoding %s genesis: %w", clmmtypes.ModuleName, err)
		}
	}
	for name := range gs {
		if name != ledgertypes.ModuleName && name != clmmtypes.ModuleName {
			return nil, nil, fmt.Errorf("unknown module %q in genesis", name)
		}
	}
	return ledgerGenesis, clmmGenesis, nil
}

// Validate checks the state of every module.
func (gs GenesisState) Validate() error {
	ledgerGenesis, clmmGenesis, err := gs.Decode()
	if err != nil {
		return err
	}
	if err := ledgerGenesis.Validate(); err != nil {
		return err
	}
	clmmGenesis.Normalize()
	return clmmGenesis.Validate()
}
