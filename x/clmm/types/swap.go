package types

import (
	"strings"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// Direction is the side of the pool a swap pays into.
type Direction uint8

const (
	// DirectionAToB sells asset A for asset B; the price moves down.
	DirectionAToB Direction = iota + 1
	// DirectionBToA sells asset B for asset A; the price moves up.
	DirectionBToA
)

// ParseDirection accepts "a_to_b" or "b_to_a" (case insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a_to_b", "atob":
		return DirectionAToB, nil
	case "b_to_a", "btoa":
		return DirectionBToA, nil
	default:
		return 0, ErrInvalidDirection.Wrapf("%q", s)
	}
}

// Validate fails for anything but the two known directions.
func (d Direction) Validate() error {
	if d != DirectionAToB && d != DirectionBToA {
		return ErrInvalidDirection.Wrapf("%d", d)
	}
	return nil
}

func (d Direction) String() string {
	switch d {
	case DirectionAToB:
		return "a_to_b"
	case DirectionBToA:
		return "b_to_a"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SwapResult summarizes an executed or simulated swap.
type SwapResult struct {
	AmountIn     math.Int     `json:"amount_in"`
	AmountOut    math.Int     `json:"amount_out"`
	FeeAmount    math.Int     `json:"fee_amount"`
	SqrtPrice    *uint256.Int `json:"sqrt_price"`
	CurrentTick  int32        `json:"current_tick"`
	TicksCrossed uint32       `json:"ticks_crossed"`
	Steps        uint32       `json:"steps"`
}
