package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// GetTxCmd returns the transaction commands for the clmm module
func GetTxCmd(getRuntime RuntimeGetter) *cobra.Command {
	clmmTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Concentrated liquidity transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       validateCmd,
	}

	clmmTxCmd.AddCommand(
		CmdOpenPool(getRuntime),
		CmdAddLiquidity(getRuntime),
		CmdRemoveLiquidity(getRuntime),
		CmdCollectFees(getRuntime),
		CmdClosePosition(getRuntime),
		CmdSwapExactIn(getRuntime),
		CmdSwapExactOut(getRuntime),
	)

	return clmmTxCmd
}

// validateCmd rejects unknown subcommands of a command group.
func validateCmd(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return cmd.Help()
}

// runTx executes msg against the runtime and prints the response together
// with the events it emitted.
func runTx[Resp any](cmd *cobra.Command, getRuntime RuntimeGetter, exec func(rt *Runtime) (Resp, error)) error {
	rt, err := getRuntime(cmd)
	if err != nil {
		return err
	}
	resp, err := exec(rt)
	if err != nil {
		return err
	}
	return printJSON(cmd, txOutput{Response: resp, Events: rt.Events()})
}

// CmdOpenPool returns a CLI command handler for opening a pool
func CmdOpenPool(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open-pool [asset-a] [asset-b] [tick-spacing] [fee-rate-bps]",
		Short: "Open a concentrated liquidity pool",
		Long: `Open a pool for an asset pair at an initial price. Asset A must sort below asset B.
The price is given either as a tick (--tick) or as a Q64.64 square root price (--sqrt-price).

Example:
  $ clmmd tx clmm open-pool uatom uusdc 10 30 --tick 0 --from paw1...`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, from, err := callerContext(cmd)
			if err != nil {
				return err
			}
			spacing, err := parseUint32("tick-spacing", args[2])
			if err != nil {
				return err
			}
			feeRate, err := parseUint32("fee-rate-bps", args[3])
			if err != nil {
				return err
			}

			sqrtPrice, err := intFlag(cmd, FlagSqrtPrice)
			if err != nil {
				return err
			}
			if sqrtPrice.IsNil() {
				tick, err := cmd.Flags().GetInt32(FlagTick)
				if err != nil {
					return err
				}
				price, err := fixedpoint.SqrtPriceAtTick(tick)
				if err != nil {
					return err
				}
				sqrtPrice = fixedpoint.ToInt(price)
			}

			msg := &types.MsgOpenPool{
				Creator:          from,
				AssetA:           args[0],
				AssetB:           args[1],
				InitialSqrtPrice: sqrtPrice,
				TickSpacing:      spacing,
				FeeRateBps:       feeRate,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return runTx(cmd, getRuntime, func(rt *Runtime) (*types.MsgOpenPoolResponse, error) {
				return rt.MsgServer.OpenPool(ctx, msg)
			})
		},
	}

	cmd.Flags().Int32(FlagTick, 0, "Initial price as a tick index")
	cmd.Flags().String(FlagSqrtPrice, "", "Initial Q64.64 square root price (overrides --tick)")
	addFromFlag(cmd)
	return cmd
}

// CmdAddLiquidity returns a CLI command handler for adding liquidity to a position
func CmdAddLiquidity(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-liquidity [pool-id] [liquidity] --tick-lower [tick] --tick-upper [tick]",
		Short: "Add liquidity to a position, opening it if needed",
		Long: `Add liquidity over [tick-lower, tick-upper). The command fails if the deposit
would exceed --amount-a-max or --amount-b-max.

Example:
  $ clmmd tx clmm add-liquidity 7Xq... 1000000 --tick-lower=-100 --tick-upper=100 --amount-a-max 5000 --amount-b-max 5000 --from paw1...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, from, err := callerContext(cmd)
			if err != nil {
				return err
			}
			ref, err := parsePositionRef(cmd, from, args[0])
			if err != nil {
				return err
			}
			liquidity, err := parseInt("liquidity", args[1])
			if err != nil {
				return err
			}
			maxA, err := intFlag(cmd, FlagAmountAMax)
			if err != nil {
				return err
			}
			maxB, err := intFlag(cmd, FlagAmountBMax)
			if err != nil {
				return err
			}

			msg := &types.MsgAddLiquidity{PositionRef: ref, Liquidity: liquidity, AmountAMax: maxA, AmountBMax: maxB}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return runTx(cmd, getRuntime, func(rt *Runtime) (*types.MsgAddLiquidityResponse, error) {
				return rt.MsgServer.AddLiquidity(ctx, msg)
			})
		},
	}

	cmd.Flags().String(FlagAmountAMax, "", "Maximum amount of asset A to deposit")
	cmd.Flags().String(FlagAmountBMax, "", "Maximum amount of asset B to deposit")
	_ = cmd.MarkFlagRequired(FlagAmountAMax)
	_ = cmd.MarkFlagRequired(FlagAmountBMax)
	addRangeFlags(cmd)
	addFromFlag(cmd)
	return cmd
}

// CmdRemoveLiquidity returns a CLI command handler for removing liquidity from a position
func CmdRemoveLiquidity(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-liquidity [pool-id] [liquidity] --tick-lower [tick] --tick-upper [tick]",
		Short: "Remove liquidity from a position and withdraw the principal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, from, err := callerContext(cmd)
			if err != nil {
				return err
			}
			ref, err := parsePositionRef(cmd, from, args[0])
			if err != nil {
				return err
			}
			liquidity, err := parseInt("liquidity", args[1])
			if err != nil {
				return err
			}

			msg := &types.MsgRemoveLiquidity{PositionRef: ref, Liquidity: liquidity}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return runTx(cmd, getRuntime, func(rt *Runtime) (*types.MsgRemoveLiquidityResponse, error) {
				return rt.MsgServer.RemoveLiquidity(ctx, msg)
			})
		},
	}

	addRangeFlags(cmd)
	addFromFlag(cmd)
	return cmd
}

// CmdCollectFees returns a CLI command handler for collecting the fees of a position
func CmdCollectFees(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect-fees [pool-id] --tick-lower [tick] --tick-upper [tick]",
		Short: "Withdraw the fees owed to a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, from, err := callerContext(cmd)
			if err != nil {
				return err
			}
			ref, err := parsePositionRef(cmd, from, args[0])
			if err != nil {
				return err
			}

			msg := &types.MsgCollectFees{PositionRef: ref}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return runTx(cmd, getRuntime, func(rt *Runtime) (*types.MsgCollectFeesResponse, error) {
				return rt.MsgServer.CollectFees(ctx, msg)
			})
		},
	}

	addRangeFlags(cmd)
	addFromFlag(cmd)
	return cmd
}

// CmdClosePosition returns a CLI command handler for closing an empty position
func CmdClosePosition(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close-position [pool-id] --tick-lower [tick] --tick-upper [tick]",
		Short: "Delete a position with no liquidity and no owed fees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, from, err := callerContext(cmd)
			if err != nil {
				return err
			}
			ref, err := parsePositionRef(cmd, from, args[0])
			if err != nil {
				return err
			}

			msg := &types.MsgClosePosition{PositionRef: ref}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return runTx(cmd, getRuntime, func(rt *Runtime) (*types.MsgClosePositionResponse, error) {
				return rt.MsgServer.ClosePosition(ctx, msg)
			})
		},
	}

	addRangeFlags(cmd)
	addFromFlag(cmd)
	return cmd
}

// CmdSwapExactIn returns a CLI command handler for selling an exact amount
func CmdSwapExactIn(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap-exact-in [pool-id] [direction] [amount-in]",
		Short: "Sell an exact amount of one asset of a pool",
		Long: `Sell [amount-in] of the input asset. Direction is a_to_b or b_to_a.
The swap stops early at --sqrt-price-limit and fails below --min-amount-out.

Example:
  $ clmmd tx clmm swap-exact-in 7Xq... a_to_b 500 --min-amount-out 490 --from paw1...`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, from, err := callerContext(cmd)
			if err != nil {
				return err
			}
			poolID, err := types.ParsePoolID(args[0])
			if err != nil {
				return err
			}
			dir, err := types.ParseDirection(args[1])
			if err != nil {
				return err
			}
			amountIn, err := parseInt("amount-in", args[2])
			if err != nil {
				return err
			}
			minOut, err := intFlag(cmd, FlagMinAmountOut)
			if err != nil {
				return err
			}
			limit, err := intFlag(cmd, FlagSqrtPriceLimit)
			if err != nil {
				return err
			}

			msg := &types.MsgSwapExactIn{
				Trader:         from,
				PoolId:         poolID,
				Direction:      dir,
				AmountIn:       amountIn,
				MinAmountOut:   minOut,
				SqrtPriceLimit: limit,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return runTx(cmd, getRuntime, func(rt *Runtime) (*types.MsgSwapResponse, error) {
				return rt.MsgServer.SwapExactIn(ctx, msg)
			})
		},
	}

	cmd.Flags().String(FlagMinAmountOut, "0", "Minimum amount of the output asset to receive")
	cmd.Flags().String(FlagSqrtPriceLimit, "", "Q64.64 square root price at which the swap stops")
	addFromFlag(cmd)
	return cmd
}

// CmdSwapExactOut returns a CLI command handler for buying an exact amount
func CmdSwapExactOut(getRuntime RuntimeGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap-exact-out [pool-id] [direction] [amount-out]",
		Short: "Buy an exact amount of one asset of a pool",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, from, err := callerContext(cmd)
			if err != nil {
				return err
			}
			poolID, err := types.ParsePoolID(args[0])
			if err != nil {
				return err
			}
			dir, err := types.ParseDirection(args[1])
			if err != nil {
				return err
			}
			amountOut, err := parseInt("amount-out", args[2])
			if err != nil {
				return err
			}
			maxIn, err := intFlag(cmd, FlagMaxAmountIn)
			if err != nil {
				return err
			}
			limit, err := intFlag(cmd, FlagSqrtPriceLimit)
			if err != nil {
				return err
			}

			msg := &types.MsgSwapExactOut{
				Trader:         from,
				PoolId:         poolID,
				Direction:      dir,
				AmountOut:      amountOut,
				MaxAmountIn:    maxIn,
				SqrtPriceLimit: limit,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return runTx(cmd, getRuntime, func(rt *Runtime) (*types.MsgSwapResponse, error) {
				return rt.MsgServer.SwapExactOut(ctx, msg)
			})
		},
	}

	cmd.Flags().String(FlagMaxAmountIn, "", "Maximum amount of the input asset to pay")
	cmd.Flags().String(FlagSqrtPriceLimit, "", "Q64.64 square root price at which the swap stops")
	_ = cmd.MarkFlagRequired(FlagMaxAmountIn)
	addFromFlag(cmd)
	return cmd
}
