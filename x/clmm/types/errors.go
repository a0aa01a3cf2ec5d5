package types

import (
	"cosmossdk.io/errors"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
)

// CLMM module sentinel errors
var (
	ErrInvalidTickRange          = errors.Register(ModuleName, 1, "invalid tick range")
	ErrZeroLiquidity             = errors.Register(ModuleName, 2, "liquidity delta must be positive")
	ErrInvalidLiquidityAmount    = errors.Register(ModuleName, 3, "invalid liquidity amount")
	ErrSlippageExceeded          = errors.Register(ModuleName, 4, "slippage exceeded")
	ErrPositionStillHasLiquidity = errors.Register(ModuleName, 5, "position still has liquidity or owed tokens")
	ErrTickNotFound              = errors.Register(ModuleName, 6, "initialized tick not found")
	ErrInvalidSpacing            = errors.Register(ModuleName, 7, "invalid tick spacing")
	ErrPoolNotFound              = errors.Register(ModuleName, 8, "pool not found")
	ErrPoolAlreadyExists         = errors.Register(ModuleName, 9, "pool already exists")
	ErrPositionNotFound          = errors.Register(ModuleName, 10, "position not found")
	ErrInvalidFeeRate            = errors.Register(ModuleName, 11, "invalid fee rate")
	ErrInsufficientLiquidity     = errors.Register(ModuleName, 12, "insufficient liquidity")
	ErrZeroAmount                = errors.Register(ModuleName, 13, "amount must be positive")
	ErrPoolBusy                  = errors.Register(ModuleName, 14, "pool has an operation in flight")
	ErrInvalidAssetPair          = errors.Register(ModuleName, 15, "invalid asset pair")
	ErrUnauthorized              = errors.Register(ModuleName, 16, "unauthorized")
	ErrInvalidPoolID             = errors.Register(ModuleName, 17, "invalid pool id")
	ErrInvalidGenesis            = errors.Register(ModuleName, 18, "invalid genesis state")
	ErrInvalidDirection          = errors.Register(ModuleName, 19, "invalid swap direction")
	ErrInvalidAddress            = errors.Register(ModuleName, 20, "invalid address")
)

// ErrPositionNotEmpty is returned when closing a position that still holds
// liquidity or owed tokens.
var ErrPositionNotEmpty = ErrPositionStillHasLiquidity

// Fixed-point failures keep their own codespace.
var (
	ErrOverflow         = fixedpoint.ErrOverflow
	ErrInvalidSqrtPrice = fixedpoint.ErrInvalidSqrtPrice
)
