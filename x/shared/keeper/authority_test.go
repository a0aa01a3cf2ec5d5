package keeper_test

import (
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/paw-clmm/x/shared/keeper"
)

func TestValidateAuthority(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		wantErr  bool
	}{
		{
			name:     "valid authority match",
			expected: "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn",
			actual:   "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn",
			wantErr:  false,
		},
		{
			name:     "authority mismatch",
			expected: "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn",
			actual:   "cosmos1fl48vsnmsdzcv85q5d2q4z5ajdha8yu34mf0eh",
			wantErr:  true,
		},
		{
			name:     "empty actual authority",
			expected: "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn",
			actual:   "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := keeper.ValidateAuthority(tt.expected, tt.actual)
			if tt.wantErr {
				require.ErrorIs(t, err, govtypes.ErrInvalidSigner)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestVerifyController(t *testing.T) {
	auth := keeper.NewAddressAuthority("clmm")
	owner := sdk.AccAddress([]byte("owner_______________"))
	other := sdk.AccAddress([]byte("other_______________"))

	require.NoError(t, auth.VerifyController(context.Background(), owner.String(), owner))
	require.ErrorIs(t, auth.VerifyController(context.Background(), other.String(), owner), govtypes.ErrInvalidSigner)
	require.ErrorIs(t, auth.VerifyController(context.Background(), owner.String(), nil), sdkerrors.ErrInvalidAddress)
}

func TestVerifyDerivedAccount(t *testing.T) {
	auth := keeper.NewAddressAuthority("clmm")
	keys := [][]byte{[]byte("vault"), []byte("pool"), []byte("uatom")}
	vault := sdk.AccAddress(address.Module("clmm", keys...))

	require.NoError(t, auth.VerifyDerivedAccount(context.Background(), vault, keys...))

	// same keys under another module derive another account
	foreign := sdk.AccAddress(address.Module("bank", keys...))
	require.ErrorIs(t, auth.VerifyDerivedAccount(context.Background(), foreign, keys...), sdkerrors.ErrUnauthorized)

	require.ErrorIs(t, auth.VerifyDerivedAccount(context.Background(), vault), sdkerrors.ErrUnauthorized)
}
