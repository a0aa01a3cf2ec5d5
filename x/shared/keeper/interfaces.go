// Package keeper provides shared keeper interfaces for cross-module communication.
package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// =============================================================================
// Ledger Service Interfaces (Versioned)
// =============================================================================

// LedgerV1 moves value between named balances. Every call is atomic: it
// either applies in full or leaves all balances untouched.
// Version 1.0 - Initial release for devnet
type LedgerV1 interface {
	// SendCoins moves amt from one balance to another.
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error

	// GetBalance returns the balance of addr in denom.
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// LedgerV1Extended adds supply management to V1.
type LedgerV1Extended interface {
	LedgerV1

	// MintCoins credits newly created amt to addr.
	MintCoins(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error

	// BurnCoins destroys amt held by addr.
	BurnCoins(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error

	// GetAllBalances returns every balance of addr.
	GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins
}

// =============================================================================
// Authority Service Interfaces (Versioned)
// =============================================================================

// AuthorityV1 answers who may act for an account.
// Version 1.0 - Initial release for devnet
type AuthorityV1 interface {
	// VerifyController fails unless caller controls identity.
	VerifyController(ctx context.Context, caller string, identity sdk.AccAddress) error

	// VerifyDerivedAccount fails unless account is derived by the service's
	// module from derivationKeys.
	VerifyDerivedAccount(ctx context.Context, account sdk.AccAddress, derivationKeys ...[]byte) error
}

// =============================================================================
// Version Constants
// =============================================================================

const (
	// LedgerVersion is the current ledger interface version.
	LedgerVersion = "v1.0.0"

	// AuthorityVersion is the current authority interface version.
	AuthorityVersion = "v1.0.0"
)
