package keeper

import (
	"context"
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	ledgerkeeper "github.com/paw-chain/paw-clmm/x/ledger/keeper"
)

// FaultyLedger wraps the ledger keeper and can fail chosen transfers.
type FaultyLedger struct {
	*ledgerkeeper.Keeper

	mu     sync.Mutex
	calls  int
	failOn map[int]bool
}

// FailCalls makes the given SendCoins calls fail, counted from 1 after the
// last Reset.
func (l *FaultyLedger) FailCalls(calls ...int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failOn = make(map[int]bool, len(calls))
	for _, c := range calls {
		l.failOn[c] = true
	}
	l.calls = 0
}

// Reset clears injected failures and the call counter.
func (l *FaultyLedger) Reset() {
	l.FailCalls()
}

// Calls returns the number of SendCoins calls since the last Reset.
func (l *FaultyLedger) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// SendCoins forwards to the ledger unless the call was chosen to fail.
func (l *FaultyLedger) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	l.mu.Lock()
	l.calls++
	fail := l.failOn[l.calls]
	l.mu.Unlock()

	if fail {
		return sdkerrors.ErrIO.Wrapf("injected failure sending %s", amt)
	}
	return l.Keeper.SendCoins(ctx, fromAddr, toAddr, amt)
}
