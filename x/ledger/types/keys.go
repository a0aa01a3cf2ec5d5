package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "ledger"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	BalanceKeyPrefix = []byte{0x01} // prefix for account balances
	SupplyKeyPrefix  = []byte{0x02} // prefix for total supply per denom
)

// GetBalancePrefix returns the prefix of every balance of an account
func GetBalancePrefix(addr sdk.AccAddress) []byte {
	return append(append([]byte{}, BalanceKeyPrefix...), address.MustLengthPrefix(addr)...)
}

// GetBalanceKey returns the store key of an account balance in denom
func GetBalanceKey(addr sdk.AccAddress, denom string) []byte {
	return append(GetBalancePrefix(addr), []byte(denom)...)
}

// GetSupplyKey returns the store key of the total supply of denom
func GetSupplyKey(denom string) []byte {
	return append(append([]byte{}, SupplyKeyPrefix...), []byte(denom)...)
}

// ParseBalanceKey splits a balance key into its account and denom.
func ParseBalanceKey(key []byte) (sdk.AccAddress, string, error) {
	if len(key) < 2 || key[0] != BalanceKeyPrefix[0] {
		return nil, "", ErrInvalidAddress.Wrapf("not a balance key: %x", key)
	}
	n := int(key[1])
	if len(key) < 2+n {
		return nil, "", ErrInvalidAddress.Wrapf("truncated balance key: %x", key)
	}
	return sdk.AccAddress(key[2 : 2+n]), string(key[2+n:]), nil
}
