package types

import (
	"cosmossdk.io/errors"
)

// Ledger module sentinel errors
var (
	ErrInsufficientFunds = errors.Register(ModuleName, 1, "insufficient funds")
	ErrInvalidCoins      = errors.Register(ModuleName, 2, "invalid coins")
	ErrInvalidAddress    = errors.Register(ModuleName, 3, "invalid address")
	ErrSupplyUnderflow   = errors.Register(ModuleName, 4, "supply underflow")
)
