package app

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// Bech32PrefixAccAddr defines the Bech32 prefix of an account's address
	Bech32PrefixAccAddr = "paw"
	// Bech32PrefixAccPub defines the Bech32 prefix of an account's public key
	Bech32PrefixAccPub = "pawpub"

	// CoinType is the PAW coin type as defined in SLIP44 (https://github.com/satoshilabs/slips/blob/master/slip-0044.md)
	CoinType = 118

	// AppName names the data directory and the metrics namespace.
	AppName = "clmmd"
)

// SetConfig sets the address configuration for the PAW network. It is safe
// to call more than once; the first call seals the configuration.
func SetConfig() {
	config := sdk.GetConfig()
	if config.GetBech32AccountAddrPrefix() == Bech32PrefixAccAddr {
		return
	}
	config.SetBech32PrefixForAccount(Bech32PrefixAccAddr, Bech32PrefixAccPub)
	config.SetCoinType(CoinType)
	config.Seal()
}
