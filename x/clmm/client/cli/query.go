package cli

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// GetQueryCmd returns the cli query commands for the clmm module
func GetQueryCmd(getRuntime RuntimeGetter) *cobra.Command {
	clmmQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the concentrated liquidity module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       validateCmd,
	}

	clmmQueryCmd.AddCommand(
		CmdQueryPool(getRuntime),
		CmdQueryPools(getRuntime),
		CmdQueryTick(getRuntime),
		CmdQueryTicks(getRuntime),
		CmdQueryPosition(getRuntime),
		CmdQueryPositions(getRuntime),
		CmdQueryPreviewFees(getRuntime),
		CmdSimulateSwap(getRuntime),
	)

	return clmmQueryCmd
}

// runQuery runs a read-only lookup and prints its result.
func runQuery[T any](cmd *cobra.Command, getRuntime RuntimeGetter, query func(rt *Runtime) (T, error)) error {
	rt, err := getRuntime(cmd)
	if err != nil {
		return err
	}
	res, err := query(rt)
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}

// CmdQueryPool returns a pool by id, or by asset pair when given two arguments
func CmdQueryPool(getRuntime RuntimeGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "pool [pool-id] | [asset-a] [asset-b]",
		Short: "Query a pool by id or by asset pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, getRuntime, func(rt *Runtime) (types.Pool, error) {
				if len(args) == 2 {
					return rt.Keeper.GetPoolByAssets(cmd.Context(), args[0], args[1])
				}
				id, err := types.ParsePoolID(args[0])
				if err != nil {
					return types.Pool{}, err
				}
				return rt.Keeper.GetPool(cmd.Context(), id)
			})
		},
	}
}

// CmdQueryPools lists every pool
func CmdQueryPools(getRuntime RuntimeGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "pools",
		Short: "Query all pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, getRuntime, func(rt *Runtime) ([]types.Pool, error) {
				return rt.Keeper.GetAllPools(cmd.Context())
			})
		},
	}
}

// CmdQueryTick returns one initialized tick
func CmdQueryTick(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tick [pool-id] --tick [index]",
		Short: "Query an initialized tick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParsePoolID(args[0])
			if err != nil {
				return err
			}
			index, err := cmd.Flags().GetInt32(FlagTick)
			if err != nil {
				return err
			}
			return runQuery(cmd, getRuntime, func(rt *Runtime) (types.Tick, error) {
				return rt.Keeper.GetTick(cmd.Context(), id, index)
			})
		},
	}

	cmd.Flags().Int32(FlagTick, 0, "Index of the tick")
	_ = cmd.MarkFlagRequired(FlagTick)
	return cmd
}

// CmdQueryTicks lists the initialized ticks of a pool
func CmdQueryTicks(getRuntime RuntimeGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "ticks [pool-id]",
		Short: "Query the initialized ticks of a pool in ascending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParsePoolID(args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, getRuntime, func(rt *Runtime) ([]types.Tick, error) {
				return rt.Keeper.GetTicks(cmd.Context(), id)
			})
		},
	}
}

// CmdQueryPosition returns one position
func CmdQueryPosition(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position [owner] [pool-id] --tick-lower [tick] --tick-upper [tick]",
		Short: "Query a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, ref, err := ownerAndRef(cmd, args)
			if err != nil {
				return err
			}
			return runQuery(cmd, getRuntime, func(rt *Runtime) (types.Position, error) {
				return rt.Keeper.GetPosition(cmd.Context(), owner, ref.PoolId, ref.TickLower, ref.TickUpper)
			})
		},
	}

	addRangeFlags(cmd)
	return cmd
}

// CmdQueryPositions lists the positions of a pool, optionally of one owner
func CmdQueryPositions(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions [pool-id]",
		Short: "Query the positions of a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParsePoolID(args[0])
			if err != nil {
				return err
			}
			ownerStr, err := cmd.Flags().GetString(FlagOwner)
			if err != nil {
				return err
			}
			return runQuery(cmd, getRuntime, func(rt *Runtime) ([]types.Position, error) {
				if ownerStr == "" {
					return rt.Keeper.GetPoolPositions(cmd.Context(), id)
				}
				owner, err := sdk.AccAddressFromBech32(ownerStr)
				if err != nil {
					return nil, types.ErrInvalidAddress.Wrapf("invalid owner address: %s", err)
				}
				return rt.Keeper.GetOwnerPositions(cmd.Context(), owner, id)
			})
		},
	}

	cmd.Flags().String(FlagOwner, "", "Only list the positions of this owner")
	return cmd
}

type feesOutput struct {
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
}

// CmdQueryPreviewFees returns the fees a collect would pay now
func CmdQueryPreviewFees(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview-fees [owner] [pool-id] --tick-lower [tick] --tick-upper [tick]",
		Short: "Query the fees a position could collect now",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, ref, err := ownerAndRef(cmd, args)
			if err != nil {
				return err
			}
			return runQuery(cmd, getRuntime, func(rt *Runtime) (feesOutput, error) {
				a, b, err := rt.Keeper.PreviewFees(cmd.Context(), owner, ref.PoolId, ref.TickLower, ref.TickUpper)
				return feesOutput{AmountA: a, AmountB: b}, err
			})
		},
	}

	addRangeFlags(cmd)
	return cmd
}

// CmdSimulateSwap computes a swap without executing it
func CmdSimulateSwap(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate-swap [pool-id] [direction] [amount]",
		Short: "Compute the outcome of a swap without executing it",
		Long: `Compute a swap of [amount] input, or of [amount] output with --exact-out,
against the current state. Nothing is written.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParsePoolID(args[0])
			if err != nil {
				return err
			}
			dir, err := types.ParseDirection(args[1])
			if err != nil {
				return err
			}
			amount, err := parseInt("amount", args[2])
			if err != nil {
				return err
			}
			exactOut, err := cmd.Flags().GetBool(FlagExactOut)
			if err != nil {
				return err
			}
			limit, err := intFlag(cmd, FlagSqrtPriceLimit)
			if err != nil {
				return err
			}
			return runQuery(cmd, getRuntime, func(rt *Runtime) (types.SwapResult, error) {
				return rt.Keeper.SimulateSwap(cmd.Context(), id, dir, amount, !exactOut, limit)
			})
		},
	}

	cmd.Flags().Bool(FlagExactOut, false, "Treat the amount as the exact output")
	cmd.Flags().String(FlagSqrtPriceLimit, "", "Q64.64 square root price at which the swap stops")
	return cmd
}

func ownerAndRef(cmd *cobra.Command, args []string) (sdk.AccAddress, types.PositionRef, error) {
	owner, err := sdk.AccAddressFromBech32(args[0])
	if err != nil {
		return nil, types.PositionRef{}, types.ErrInvalidAddress.Wrapf("invalid owner address: %s", err)
	}
	ref, err := parsePositionRef(cmd, args[0], args[1])
	return owner, ref, err
}
