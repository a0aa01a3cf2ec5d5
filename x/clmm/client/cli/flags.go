package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/paw-clmm/x/clmm/keeper"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// Flag constants for clmm CLI commands
const (
	FlagFrom = "from"

	// Pool creation flags
	FlagTick      = "tick"
	FlagSqrtPrice = "sqrt-price"

	// Position flags
	FlagTickLower = "tick-lower"
	FlagTickUpper = "tick-upper"

	// Liquidity flags
	FlagAmountAMax = "amount-a-max"
	FlagAmountBMax = "amount-b-max"

	// Swap flags
	FlagMinAmountOut   = "min-amount-out"
	FlagMaxAmountIn    = "max-amount-in"
	FlagSqrtPriceLimit = "sqrt-price-limit"
	FlagExactOut       = "exact-out"

	// Query flags
	FlagOwner = "owner"
)

// Runtime is the state a command runs against.
type Runtime struct {
	MsgServer types.MsgServer
	Keeper    *keeper.Keeper
	// Events returns the events emitted since the last call.
	Events func() []sdk.Event
}

// RuntimeGetter returns the runtime of a command once its persistent
// flags are parsed.
type RuntimeGetter func(cmd *cobra.Command) (*Runtime, error)

// txOutput is what every tx command prints.
type txOutput struct {
	Response any         `json:"response"`
	Events   []sdk.Event `json:"events"`
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

// callerContext authenticates the --from address for one invocation.
func callerContext(cmd *cobra.Command) (context.Context, string, error) {
	from, err := cmd.Flags().GetString(FlagFrom)
	if err != nil {
		return nil, "", err
	}
	if _, err := sdk.AccAddressFromBech32(from); err != nil {
		return nil, "", fmt.Errorf("invalid --%s address %q: %w", FlagFrom, from, err)
	}
	return types.WithCaller(cmd.Context(), from), from, nil
}

func addFromFlag(cmd *cobra.Command) {
	cmd.Flags().String(FlagFrom, "", "Address of the account sending the message")
	_ = cmd.MarkFlagRequired(FlagFrom)
}

func parseInt(name, s string) (math.Int, error) {
	v, ok := math.NewIntFromString(s)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid %s: %s (must be integer)", name, s)
	}
	return v, nil
}

// intFlag reads an integer flag. An empty flag yields a nil Int.
func intFlag(cmd *cobra.Command, name string) (math.Int, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil || s == "" {
		return math.Int{}, err
	}
	return parseInt(name, s)
}

func parseUint32(name, s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return uint32(v), nil
}

// addRangeFlags registers the tick range of a position. Ticks are flags
// so negative values are not read as shorthand flags.
func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().Int32(FlagTickLower, 0, "Lower tick of the position (inclusive)")
	cmd.Flags().Int32(FlagTickUpper, 0, "Upper tick of the position (exclusive)")
	_ = cmd.MarkFlagRequired(FlagTickLower)
	_ = cmd.MarkFlagRequired(FlagTickUpper)
}

// parsePositionRef reads [pool-id] and the --tick-lower/--tick-upper range.
func parsePositionRef(cmd *cobra.Command, owner, poolArg string) (types.PositionRef, error) {
	poolID, err := types.ParsePoolID(poolArg)
	if err != nil {
		return types.PositionRef{}, err
	}
	lower, err := cmd.Flags().GetInt32(FlagTickLower)
	if err != nil {
		return types.PositionRef{}, err
	}
	upper, err := cmd.Flags().GetInt32(FlagTickUpper)
	if err != nil {
		return types.PositionRef{}, err
	}
	return types.PositionRef{Owner: owner, PoolId: poolID, TickLower: lower, TickUpper: upper}, nil
}
