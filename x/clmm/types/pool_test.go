package types_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

func sqrtAt(t *testing.T, tick int32) *uint256.Int {
	t.Helper()
	price, err := fixedpoint.SqrtPriceAtTick(tick)
	require.NoError(t, err)
	return price
}

// TestPoolValidate_CurrentTick tests that the current tick must contain the
// sqrt price, or sit just below a boundary the price rests on.
func TestPoolValidate_CurrentTick(t *testing.T) {
	creator := sdk.AccAddress("creator_____________")
	between := new(uint256.Int).Add(sqrtAt(t, 5), sqrtAt(t, 6))
	between.Rsh(between, 1)

	tests := []struct {
		name      string
		sqrtPrice *uint256.Int
		tick      int32
		valid     bool
	}{
		{"on the tick", sqrtAt(t, 5), 5, true},
		{"inside the tick", between, 5, true},
		{"resting on a boundary crossed downward", sqrtAt(t, 5), 4, true},
		{"inside the tick above", between, 4, false},
		{"two ticks off", sqrtAt(t, 5), 3, false},
		{"tick above the price", sqrtAt(t, 5), 6, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := types.NewPool(creator, "uatom", "uusdc", tc.sqrtPrice, tc.tick, 1, 30).Validate()
			if tc.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, types.ErrInvalidSqrtPrice)
		})
	}
}
