package fixedpoint

import (
	"cosmossdk.io/errors"
)

// Codespace is the error codespace of the fixed-point package.
const Codespace = "fixedpoint"

var (
	ErrOverflow         = errors.Register(Codespace, 1, "fixed-point overflow")
	ErrDivisionByZero   = errors.Register(Codespace, 2, "division by zero")
	ErrInvalidTick      = errors.Register(Codespace, 3, "tick out of range")
	ErrInvalidSqrtPrice = errors.Register(Codespace, 4, "sqrt price out of range")
	ErrNegative         = errors.Register(Codespace, 5, "negative value")
)
