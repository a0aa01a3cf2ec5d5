package fixedpoint_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
)

func TestSqrtPriceAtTick(t *testing.T) {
	tests := []struct {
		name string
		tick int32
		want string
	}{
		{"zero tick is one", 0, "18446744073709551616"},
		{"tick one", 1, "18447666387855957090"},
		{"tick minus one", -1, "18445821805675395072"},
		{"tick minus hundred", -100, "18354745142194513203"},
		{"tick hundred", 100, "18539204128674375874"},
		{"min tick", fixedpoint.MinTick, "4295048016"},
		{"max tick", fixedpoint.MaxTick, "79226673521066979257578248091"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fixedpoint.SqrtPriceAtTick(tc.tick)
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Dec())
		})
	}

	_, err := fixedpoint.SqrtPriceAtTick(fixedpoint.MaxTick + 1)
	require.ErrorIs(t, err, fixedpoint.ErrInvalidTick)
	_, err = fixedpoint.SqrtPriceAtTick(fixedpoint.MinTick - 1)
	require.ErrorIs(t, err, fixedpoint.ErrInvalidTick)

	require.True(t, fixedpoint.MinSqrtPrice().Eq(uint256.NewInt(4295048016)))
}

func TestTickAtSqrtPrice(t *testing.T) {
	tick, err := fixedpoint.TickAtSqrtPrice(fixedpoint.Q64())
	require.NoError(t, err)
	require.Equal(t, int32(0), tick)

	below := new(uint256.Int).Sub(fixedpoint.Q64(), uint256.NewInt(1))
	tick, err = fixedpoint.TickAtSqrtPrice(below)
	require.NoError(t, err)
	require.Equal(t, int32(-1), tick)

	tick, err = fixedpoint.TickAtSqrtPrice(fixedpoint.MaxSqrtPrice())
	require.NoError(t, err)
	require.Equal(t, fixedpoint.MaxTick, tick)

	tick, err = fixedpoint.TickAtSqrtPrice(fixedpoint.MinSqrtPrice())
	require.NoError(t, err)
	require.Equal(t, fixedpoint.MinTick, tick)

	_, err = fixedpoint.TickAtSqrtPrice(uint256.NewInt(1))
	require.ErrorIs(t, err, fixedpoint.ErrInvalidSqrtPrice)
}

// TestTickRoundTripProperties tests that tick -> price -> tick is the identity
func TestTickRoundTripProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tick := rapid.Int32Range(fixedpoint.MinTick, fixedpoint.MaxTick).Draw(t, "tick")

		price, err := fixedpoint.SqrtPriceAtTick(tick)
		if err != nil {
			t.Fatalf("price at %d: %v", tick, err)
		}
		got, err := fixedpoint.TickAtSqrtPrice(price)
		if err != nil {
			t.Fatalf("tick at %s: %v", price, err)
		}
		if got != tick {
			t.Fatalf("round trip of %d gave %d", tick, got)
		}

		if tick < fixedpoint.MaxTick {
			next, err := fixedpoint.SqrtPriceAtTick(tick + 1)
			if err != nil {
				t.Fatalf("price at %d: %v", tick+1, err)
			}
			if !next.Gt(price) {
				t.Fatalf("price not increasing at tick %d", tick)
			}
		}
	})
}

func TestMaxLiquidityPerTick(t *testing.T) {
	// spacing 1 uses every tick in [MinTick, MaxTick]
	got := fixedpoint.MaxLiquidityPerTick(1)
	want := new(uint256.Int).Div(fixedpoint.MaxU128(), uint256.NewInt(887273))
	require.True(t, got.Eq(want))

	require.True(t, fixedpoint.MaxLiquidityPerTick(60).Gt(got))
}
