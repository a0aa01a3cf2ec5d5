package keeper

import (
	"context"
	"sync"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/paw-clmm/x/ledger/types"
	sharedkeeper "github.com/paw-chain/paw-clmm/x/shared/keeper"
)

var _ sharedkeeper.LedgerV1Extended = (*Keeper)(nil)

// Keeper is the devnet ledger service. Balances live in a cosmos-db store
// and every call writes its changes in a single batch.
type Keeper struct {
	mu     sync.Mutex
	db     dbm.DB
	logger log.Logger
}

// NewKeeper creates a ledger over the "ledger/" namespace of db.
func NewKeeper(db dbm.DB, logger log.Logger) *Keeper {
	return &Keeper{
		db:     dbm.NewPrefixDB(db, []byte(types.StoreKey+"/")),
		logger: logger,
	}
}

// Logger returns a module-specific logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger.With("module", "x/"+types.ModuleName)
}

// GetBalance returns the balance of addr in denom.
func (k *Keeper) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	amount, err := k.read(types.GetBalanceKey(addr, denom))
	if err != nil {
		k.Logger().Error("failed to read balance", "address", addr.String(), "denom", denom, "error", err)
		return sdk.NewCoin(denom, math.ZeroInt())
	}
	return sdk.NewCoin(denom, amount)
}

// GetAllBalances returns every nonzero balance of addr.
func (k *Keeper) GetAllBalances(_ context.Context, addr sdk.AccAddress) sdk.Coins {
	prefix := types.GetBalancePrefix(addr)
	it, err := dbm.IteratePrefix(k.db, prefix)
	if err != nil {
		k.Logger().Error("failed to iterate balances", "address", addr.String(), "error", err)
		return sdk.NewCoins()
	}
	defer it.Close()

	coins := sdk.NewCoins()
	for ; it.Valid(); it.Next() {
		var amount math.Int
		if err := amount.Unmarshal(it.Value()); err != nil {
			k.Logger().Error("failed to decode balance", "address", addr.String(), "error", err)
			continue
		}
		coins = coins.Add(sdk.NewCoin(string(it.Key()[len(prefix):]), amount))
	}
	return coins
}

// GetSupply returns the total amount of denom in existence.
func (k *Keeper) GetSupply(_ context.Context, denom string) sdk.Coin {
	amount, err := k.read(types.GetSupplyKey(denom))
	if err != nil {
		k.Logger().Error("failed to read supply", "denom", denom, "error", err)
		return sdk.NewCoin(denom, math.ZeroInt())
	}
	return sdk.NewCoin(denom, amount)
}

// SendCoins moves amt from one balance to another. Either every coin moves
// or none does.
func (k *Keeper) SendCoins(_ context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if fromAddr.Empty() || toAddr.Empty() {
		return types.ErrInvalidAddress.Wrap("sender and recipient cannot be empty")
	}
	if err := amt.Validate(); err != nil {
		return types.ErrInvalidCoins.Wrap(err.Error())
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	batch := k.db.NewBatch()
	defer batch.Close()

	for _, coin := range amt {
		fromKey := types.GetBalanceKey(fromAddr, coin.Denom)
		fromBalance, err := k.read(fromKey)
		if err != nil {
			return err
		}
		if fromBalance.LT(coin.Amount) {
			return types.ErrInsufficientFunds.Wrapf("%s has %s%s, needs %s", fromAddr, fromBalance, coin.Denom, coin)
		}
		if fromAddr.Equals(toAddr) {
			continue
		}

		toKey := types.GetBalanceKey(toAddr, coin.Denom)
		toBalance, err := k.read(toKey)
		if err != nil {
			return err
		}
		if err := write(batch, fromKey, fromBalance.Sub(coin.Amount)); err != nil {
			return err
		}
		if err := write(batch, toKey, toBalance.Add(coin.Amount)); err != nil {
			return err
		}
	}
	return batch.WriteSync()
}

// MintCoins credits newly created amt to addr.
func (k *Keeper) MintCoins(_ context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	if addr.Empty() {
		return types.ErrInvalidAddress.Wrap("recipient cannot be empty")
	}
	if err := amt.Validate(); err != nil {
		return types.ErrInvalidCoins.Wrap(err.Error())
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	batch := k.db.NewBatch()
	defer batch.Close()

	for _, coin := range amt {
		if err := k.adjust(batch, types.GetBalanceKey(addr, coin.Denom), coin.Amount); err != nil {
			return err
		}
		if err := k.adjust(batch, types.GetSupplyKey(coin.Denom), coin.Amount); err != nil {
			return err
		}
	}
	if err := batch.WriteSync(); err != nil {
		return err
	}

	k.Logger().Info("minted coins", "recipient", addr.String(), "amount", amt.String())
	return nil
}

// BurnCoins destroys amt held by addr.
func (k *Keeper) BurnCoins(_ context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	if addr.Empty() {
		return types.ErrInvalidAddress.Wrap("holder cannot be empty")
	}
	if err := amt.Validate(); err != nil {
		return types.ErrInvalidCoins.Wrap(err.Error())
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	batch := k.db.NewBatch()
	defer batch.Close()

	for _, coin := range amt {
		balanceKey := types.GetBalanceKey(addr, coin.Denom)
		balance, err := k.read(balanceKey)
		if err != nil {
			return err
		}
		if balance.LT(coin.Amount) {
			return types.ErrInsufficientFunds.Wrapf("%s has %s%s, burning %s", addr, balance, coin.Denom, coin)
		}
		supplyKey := types.GetSupplyKey(coin.Denom)
		supply, err := k.read(supplyKey)
		if err != nil {
			return err
		}
		if supply.LT(coin.Amount) {
			return types.ErrSupplyUnderflow.Wrapf("supply %s%s, burning %s", supply, coin.Denom, coin)
		}
		if err := write(batch, balanceKey, balance.Sub(coin.Amount)); err != nil {
			return err
		}
		if err := write(batch, supplyKey, supply.Sub(coin.Amount)); err != nil {
			return err
		}
	}
	if err := batch.WriteSync(); err != nil {
		return err
	}

	k.Logger().Info("burned coins", "holder", addr.String(), "amount", amt.String())
	return nil
}

func (k *Keeper) read(key []byte) (math.Int, error) {
	bz, err := k.db.Get(key)
	if err != nil {
		return math.Int{}, err
	}
	if bz == nil {
		return math.ZeroInt(), nil
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		return math.Int{}, err
	}
	return amount, nil
}

// adjust stages the stored amount at key plus delta. Keys are distinct
// within one call, so reading the committed value is enough.
func (k *Keeper) adjust(batch dbm.Batch, key []byte, delta math.Int) error {
	amount, err := k.read(key)
	if err != nil {
		return err
	}
	return write(batch, key, amount.Add(delta))
}

// write stages amount at key; a zero amount deletes the entry.
func write(batch dbm.Batch, key []byte, amount math.Int) error {
	if amount.IsZero() {
		return batch.Delete(key)
	}
	bz, err := amount.Marshal()
	if err != nil {
		return err
	}
	return batch.Set(key, bz)
}
