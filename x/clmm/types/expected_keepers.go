package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper is the ledger service used for settlement. SendCoins must be
// all-or-nothing.
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// AuthorityKeeper is the authority-check service.
type AuthorityKeeper interface {
	// VerifyController fails unless caller controls identity.
	VerifyController(ctx context.Context, caller string, identity sdk.AccAddress) error

	// VerifyDerivedAccount fails unless account is the sub-account this
	// module derives from derivationKeys.
	VerifyDerivedAccount(ctx context.Context, account sdk.AccAddress, derivationKeys ...[]byte) error
}

// EventSink receives the events of committed operations. It must be safe for
// concurrent use when pools are operated on concurrently; *sdk.EventManager
// is not.
type EventSink interface {
	EmitEvent(event sdk.Event)
}
