package keeper_test

import (
	"context"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/paw-clmm/x/ledger/keeper"
	"github.com/paw-chain/paw-clmm/x/ledger/types"
)

var (
	alice = sdk.AccAddress([]byte("alice_______________"))
	bob   = sdk.AccAddress([]byte("bob_________________"))
)

func setup(t testing.TB) (*keeper.Keeper, context.Context) {
	t.Helper()
	return keeper.NewKeeper(dbm.NewMemDB(), log.NewNopLogger()), context.Background()
}

func coins(s string) sdk.Coins {
	c, err := sdk.ParseCoinsNormalized(s)
	if err != nil {
		panic(err)
	}
	return c
}

func TestMintAndSend(t *testing.T) {
	k, ctx := setup(t)

	require.NoError(t, k.MintCoins(ctx, alice, coins("100uatom,50uosmo")))
	require.Equal(t, math.NewInt(100), k.GetBalance(ctx, alice, "uatom").Amount)
	require.Equal(t, math.NewInt(100), k.GetSupply(ctx, "uatom").Amount)

	require.NoError(t, k.SendCoins(ctx, alice, bob, coins("40uatom,50uosmo")))
	require.True(t, coins("60uatom").Equal(k.GetAllBalances(ctx, alice)))
	require.True(t, coins("40uatom,50uosmo").Equal(k.GetAllBalances(ctx, bob)))
	require.Equal(t, math.NewInt(100), k.GetSupply(ctx, "uatom").Amount)
}

func TestSendIsAllOrNothing(t *testing.T) {
	k, ctx := setup(t)
	require.NoError(t, k.MintCoins(ctx, alice, coins("100uatom,10uosmo")))

	err := k.SendCoins(ctx, alice, bob, coins("50uatom,11uosmo"))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	require.True(t, coins("100uatom,10uosmo").Equal(k.GetAllBalances(ctx, alice)))
	require.True(t, k.GetAllBalances(ctx, bob).IsZero())
}

func TestSendValidation(t *testing.T) {
	k, ctx := setup(t)
	require.NoError(t, k.MintCoins(ctx, alice, coins("100uatom")))

	tests := []struct {
		name    string
		from    sdk.AccAddress
		to      sdk.AccAddress
		amt     sdk.Coins
		wantErr error
	}{
		{"empty sender", nil, bob, coins("1uatom"), types.ErrInvalidAddress},
		{"empty recipient", alice, nil, coins("1uatom"), types.ErrInvalidAddress},
		{"unsorted coins", alice, bob, sdk.Coins{sdk.NewInt64Coin("uosmo", 1), sdk.NewInt64Coin("uatom", 1)}, types.ErrInvalidCoins},
		{"overdraft", alice, bob, coins("101uatom"), types.ErrInsufficientFunds},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, k.SendCoins(ctx, tc.from, tc.to, tc.amt), tc.wantErr)
		})
	}
	require.Equal(t, math.NewInt(100), k.GetBalance(ctx, alice, "uatom").Amount)
}

func TestSendToSelf(t *testing.T) {
	k, ctx := setup(t)
	require.NoError(t, k.MintCoins(ctx, alice, coins("5uatom")))

	require.NoError(t, k.SendCoins(ctx, alice, alice, coins("5uatom")))
	require.Equal(t, math.NewInt(5), k.GetBalance(ctx, alice, "uatom").Amount)
	require.ErrorIs(t, k.SendCoins(ctx, alice, alice, coins("6uatom")), types.ErrInsufficientFunds)
}

func TestBurn(t *testing.T) {
	k, ctx := setup(t)
	require.NoError(t, k.MintCoins(ctx, alice, coins("100uatom")))

	require.NoError(t, k.BurnCoins(ctx, alice, coins("30uatom")))
	require.Equal(t, math.NewInt(70), k.GetBalance(ctx, alice, "uatom").Amount)
	require.Equal(t, math.NewInt(70), k.GetSupply(ctx, "uatom").Amount)

	require.ErrorIs(t, k.BurnCoins(ctx, alice, coins("71uatom")), types.ErrInsufficientFunds)
	require.Equal(t, math.NewInt(70), k.GetSupply(ctx, "uatom").Amount)
}

func TestPrefixIsolation(t *testing.T) {
	db := dbm.NewMemDB()
	k := keeper.NewKeeper(db, log.NewNopLogger())
	ctx := context.Background()
	require.NoError(t, db.Set([]byte("clmm/unrelated"), []byte("x")))

	require.NoError(t, k.MintCoins(ctx, alice, coins("1uatom")))
	bz, err := db.Get(append([]byte(types.StoreKey+"/"), types.GetBalanceKey(alice, "uatom")...))
	require.NoError(t, err)
	require.NotNil(t, bz)
}

// TestSupplyConservation checks that transfers never change the total
// supply or the sum of balances.
func TestSupplyConservation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		k := keeper.NewKeeper(dbm.NewMemDB(), log.NewNopLogger())
		ctx := context.Background()
		accounts := []sdk.AccAddress{alice, bob, sdk.AccAddress([]byte("carol_______________"))}

		minted := rapid.Int64Range(1, 1_000_000).Draw(rt, "minted")
		require.NoError(rt, k.MintCoins(ctx, alice, sdk.NewCoins(sdk.NewInt64Coin("uatom", minted))))

		n := rapid.IntRange(1, 20).Draw(rt, "transfers")
		for i := 0; i < n; i++ {
			from := accounts[rapid.IntRange(0, 2).Draw(rt, "from")]
			to := accounts[rapid.IntRange(0, 2).Draw(rt, "to")]
			amount := rapid.Int64Range(1, minted).Draw(rt, "amount")
			_ = k.SendCoins(ctx, from, to, sdk.NewCoins(sdk.NewInt64Coin("uatom", amount)))
		}

		total := math.ZeroInt()
		for _, acc := range accounts {
			bal := k.GetBalance(ctx, acc, "uatom").Amount
			require.False(rt, bal.IsNegative())
			total = total.Add(bal)
		}
		require.Equal(rt, math.NewInt(minted), total)
		require.Equal(rt, math.NewInt(minted), k.GetSupply(ctx, "uatom").Amount)
	})
}

func TestGenesisRoundTrip(t *testing.T) {
	k, ctx := setup(t)
	require.NoError(t, k.MintCoins(ctx, alice, coins("100uatom,7uosmo")))
	require.NoError(t, k.MintCoins(ctx, bob, coins("3uatom")))

	exported, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.Len(t, exported.Balances, 2)

	other, _ := setup(t)
	require.NoError(t, other.InitGenesis(ctx, *exported))
	require.True(t, coins("100uatom,7uosmo").Equal(other.GetAllBalances(ctx, alice)))
	require.Equal(t, math.NewInt(103), other.GetSupply(ctx, "uatom").Amount)

	reexported, err := other.ExportGenesis(ctx)
	require.NoError(t, err)
	require.Equal(t, exported, reexported)
}

func TestGenesisValidate(t *testing.T) {
	gs := types.GenesisState{Balances: []types.Balance{
		{Address: alice.String(), Coins: coins("1uatom")},
		{Address: alice.String(), Coins: coins("2uatom")},
	}}
	require.ErrorIs(t, gs.Validate(), types.ErrInvalidAddress)

	gs = types.GenesisState{Balances: []types.Balance{{Address: "nope", Coins: coins("1uatom")}}}
	require.ErrorIs(t, gs.Validate(), types.ErrInvalidAddress)
}
