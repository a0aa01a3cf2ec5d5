package fixedpoint_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
)

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

// TestMulDiv tests floor division over a 512-bit intermediate
func TestMulDiv(t *testing.T) {
	got, err := fixedpoint.MulDiv(u(10), u(10), u(3))
	require.NoError(t, err)
	require.Equal(t, uint64(33), got.Uint64())

	// product exceeds 256 bits but the quotient does not
	big := new(uint256.Int).Lsh(u(1), 200)
	got, err = fixedpoint.MulDiv(big, big, big)
	require.NoError(t, err)
	require.True(t, got.Eq(big))

	_, err = fixedpoint.MulDiv(big, big, u(1))
	require.ErrorIs(t, err, fixedpoint.ErrOverflow)

	_, err = fixedpoint.MulDiv(u(1), u(1), u(0))
	require.ErrorIs(t, err, fixedpoint.ErrDivisionByZero)
}

// TestMulDivRoundingUp tests ceiling rounding only when a remainder exists
func TestMulDivRoundingUp(t *testing.T) {
	got, err := fixedpoint.MulDivRoundingUp(u(10), u(10), u(3))
	require.NoError(t, err)
	require.Equal(t, uint64(34), got.Uint64())

	got, err = fixedpoint.MulDivRoundingUp(u(10), u(9), u(3))
	require.NoError(t, err)
	require.Equal(t, uint64(30), got.Uint64())
}

// TestShiftDivGrouping tests that the shift is applied before the division
func TestShiftDivGrouping(t *testing.T) {
	got, err := fixedpoint.ShiftDiv(u(3), 64, u(1000))
	require.NoError(t, err)

	want := new(uint256.Int).Lsh(u(3), 64)
	want.Div(want, u(1000))
	require.True(t, got.Eq(want))

	// 3 << (64 / 1000) would be 3
	require.NotEqual(t, uint64(3), got.Uint64())

	_, err = fixedpoint.ShiftDiv(new(uint256.Int).Lsh(u(1), 200), 64, u(1))
	require.ErrorIs(t, err, fixedpoint.ErrOverflow)

	_, err = fixedpoint.ShiftDiv(u(1), 64, u(0))
	require.ErrorIs(t, err, fixedpoint.ErrDivisionByZero)
}

func TestWrappingSub128(t *testing.T) {
	got := fixedpoint.WrappingSub128(u(1), u(2))
	require.True(t, got.Eq(fixedpoint.MaxU128()))

	got = fixedpoint.WrappingSub128(u(5), u(2))
	require.Equal(t, uint64(3), got.Uint64())

	// a + (b - a) wraps back to b
	a := fixedpoint.MaxU128()
	b := u(7)
	require.True(t, fixedpoint.WrappingAdd128(a, fixedpoint.WrappingSub128(b, a)).Eq(b))
}

func TestCheckedArithmetic(t *testing.T) {
	_, err := fixedpoint.CheckedAdd128(fixedpoint.MaxU128(), u(1))
	require.ErrorIs(t, err, fixedpoint.ErrOverflow)

	_, err = fixedpoint.CheckedSub(u(1), u(2))
	require.ErrorIs(t, err, fixedpoint.ErrOverflow)

	require.NoError(t, fixedpoint.CheckU128(fixedpoint.MaxU128()))
	require.ErrorIs(t, fixedpoint.CheckU128(new(uint256.Int).Lsh(u(1), 128)), fixedpoint.ErrOverflow)
}

func TestAddDelta(t *testing.T) {
	got, err := fixedpoint.AddDelta(u(100), math.NewInt(-40))
	require.NoError(t, err)
	require.Equal(t, uint64(60), got.Uint64())

	got, err = fixedpoint.AddDelta(u(100), math.NewInt(40))
	require.NoError(t, err)
	require.Equal(t, uint64(140), got.Uint64())

	_, err = fixedpoint.AddDelta(u(10), math.NewInt(-11))
	require.ErrorIs(t, err, fixedpoint.ErrOverflow)
}

func TestIntConversion(t *testing.T) {
	x, err := fixedpoint.FromInt(math.NewInt(12345))
	require.NoError(t, err)
	require.Equal(t, uint64(12345), x.Uint64())
	require.Equal(t, "12345", fixedpoint.ToInt(x).String())

	_, err = fixedpoint.FromInt(math.NewInt(-1))
	require.ErrorIs(t, err, fixedpoint.ErrNegative)

	require.True(t, fixedpoint.ToInt(nil).IsZero())
}

// TestMulDivProperties tests MulDiv against the rounding-up variant
func TestMulDivProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := u(rapid.Uint64().Draw(t, "a"))
		b := u(rapid.Uint64().Draw(t, "b"))
		d := u(rapid.Uint64Range(1, ^uint64(0)).Draw(t, "d"))

		floor, err := fixedpoint.MulDiv(a, b, d)
		if err != nil {
			t.Fatalf("floor: %v", err)
		}
		ceil, err := fixedpoint.MulDivRoundingUp(a, b, d)
		if err != nil {
			t.Fatalf("ceil: %v", err)
		}

		diff := new(uint256.Int).Sub(ceil, floor)
		if diff.GtUint64(1) {
			t.Fatalf("ceil %s and floor %s differ by more than one", ceil, floor)
		}

		// floor * d <= a * b
		lhs := new(uint256.Int).Mul(floor, d)
		rhs := new(uint256.Int).Mul(a, b)
		if lhs.Gt(rhs) {
			t.Fatalf("floor(%s*%s/%s)=%s too large", a, b, d, floor)
		}
	})
}
