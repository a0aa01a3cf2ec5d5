package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// transfer is one leg of a settlement against the ledger service.
type transfer struct {
	from      sdk.AccAddress
	to        sdk.AccAddress
	coin      sdk.Coin
	fromVault bool
}

// deposit moves amount of denom from an account into the pool's vault.
func deposit(pool types.Pool, from sdk.AccAddress, denom string, amount *uint256.Int) transfer {
	return transfer{
		from: from,
		to:   types.VaultAddress(pool.Id, denom),
		coin: sdk.NewCoin(denom, fixedpoint.ToInt(amount)),
	}
}

// withdraw moves amount of denom from the pool's vault to an account.
func withdraw(pool types.Pool, to sdk.AccAddress, denom string, amount *uint256.Int) transfer {
	return transfer{
		from:      types.VaultAddress(pool.Id, denom),
		to:        to,
		coin:      sdk.NewCoin(denom, fixedpoint.ToInt(amount)),
		fromVault: true,
	}
}

// finish settles the transfers of an operation and then commits its staged
// state. Vault outflows are authorized before any value moves. Transfers are
// issued in order; if one fails the completed ones are reversed and nothing
// is committed. If the commit itself fails the transfers are reversed too.
func (k Keeper) finish(ctx context.Context, t *txn, pool types.Pool, operation string, transfers ...transfer) error {
	for _, tr := range transfers {
		if !tr.fromVault || tr.coin.IsZero() {
			continue
		}
		if err := k.authority.VerifyDerivedAccount(ctx, tr.from, types.VaultDerivationKeys(pool.Id, tr.coin.Denom)...); err != nil {
			return errorsmod.Wrapf(err, "vault %s of pool %s", tr.from, pool.Id)
		}
	}

	done := make([]transfer, 0, len(transfers))
	for _, tr := range transfers {
		if tr.coin.IsZero() {
			continue
		}
		if err := k.bankKeeper.SendCoins(ctx, tr.from, tr.to, sdk.NewCoins(tr.coin)); err != nil {
			k.metrics.SettlementFailures.WithLabelValues(pool.Id.String(), operation).Inc()
			k.revert(ctx, pool, done)
			return errorsmod.Wrapf(err, "%s on pool %s: transfer of %s from %s to %s", operation, pool.Id, tr.coin, tr.from, tr.to)
		}
		done = append(done, tr)
	}

	if err := t.commit(); err != nil {
		k.Logger().Error("failed to commit settled operation", "pool", pool.Id.String(), "operation", operation, "error", err)
		k.revert(ctx, pool, done)
		return errorsmod.Wrapf(err, "%s on pool %s: commit", operation, pool.Id)
	}
	return nil
}

// revert reverses completed transfers, newest first. A failed reversal
// leaves external balances out of step with the pool and is logged.
func (k Keeper) revert(ctx context.Context, pool types.Pool, done []transfer) {
	for i := len(done) - 1; i >= 0; i-- {
		tr := done[i]
		if err := k.bankKeeper.SendCoins(ctx, tr.to, tr.from, sdk.NewCoins(tr.coin)); err != nil {
			k.metrics.RevertFailures.Inc()
			k.Logger().Error("failed to revert settlement transfer",
				"pool", pool.Id.String(),
				"from", tr.to.String(),
				"to", tr.from.String(),
				"amount", tr.coin.String(),
				"error", err,
			)
		}
	}
}
