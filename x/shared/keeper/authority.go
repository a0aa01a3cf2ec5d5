// Package keeper provides shared keeper interfaces and utilities for cross-module communication.
package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
)

// ValidateAuthority checks that the provided authority matches the expected authority.
//
// Returns:
//   - error: govtypes.ErrInvalidSigner if authority mismatch, nil otherwise
func ValidateAuthority(expected, actual string) error {
	if expected != actual {
		return govtypes.ErrInvalidSigner.Wrapf(
			"invalid authority; expected %s, got %s",
			expected,
			actual,
		)
	}
	return nil
}

var _ AuthorityV1 = AddressAuthority{}

// AddressAuthority is the authority-check service for accounts identified by
// their bech32 address. A caller controls exactly the account it signs for,
// and a module controls the sub-accounts it derives with address.Module.
type AddressAuthority struct {
	moduleName string
}

// NewAddressAuthority returns the authority service of moduleName.
func NewAddressAuthority(moduleName string) AddressAuthority {
	return AddressAuthority{moduleName: moduleName}
}

// VerifyController fails with govtypes.ErrInvalidSigner unless caller is
// the bech32 form of identity.
func (a AddressAuthority) VerifyController(_ context.Context, caller string, identity sdk.AccAddress) error {
	if identity.Empty() {
		return sdkerrors.ErrInvalidAddress.Wrap("empty identity")
	}
	return ValidateAuthority(identity.String(), caller)
}

// VerifyDerivedAccount fails with sdkerrors.ErrUnauthorized unless account
// is the module sub-account derived from derivationKeys.
func (a AddressAuthority) VerifyDerivedAccount(_ context.Context, account sdk.AccAddress, derivationKeys ...[]byte) error {
	if len(derivationKeys) == 0 {
		return sdkerrors.ErrUnauthorized.Wrap("no derivation keys")
	}
	expected := sdk.AccAddress(address.Module(a.moduleName, derivationKeys...))
	if !expected.Equals(account) {
		return sdkerrors.ErrUnauthorized.Wrapf(
			"account %s is not derived by module %s; expected %s",
			account,
			a.moduleName,
			expected,
		)
	}
	return nil
}
