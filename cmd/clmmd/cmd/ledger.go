package cmd

import (
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/paw-clmm/x/clmm/keeper"
)

const flagDenom = "denom"

// LedgerCmd groups the commands on the local ledger.
func LedgerCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "ledger",
		Short:                      "Ledger balance subcommands",
		SuggestionsMinimumDistance: 2,
		RunE:                       groupRunE,
	}
	cmd.AddCommand(
		BalanceCmd(holder),
		FundCmd(holder),
	)
	return cmd
}

// BalanceCmd returns a command that prints the balances of an account.
func BalanceCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance [address]",
		Short: "Query the balances of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			a, err := holder.App(cmd)
			if err != nil {
				return err
			}

			var out any = a.Ledger.GetAllBalances(cmd.Context(), addr)
			if denom, _ := cmd.Flags().GetString(flagDenom); denom != "" {
				out = a.Ledger.GetBalance(cmd.Context(), addr, denom)
			}
			bz, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}

	cmd.Flags().String(flagDenom, "", "only print the balance of this denom")
	return cmd
}

// FundCmd returns a command that mints coins to an account. It is meant
// for local networks.
func FundCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "fund [address] [coins]",
		Short: "Mint coins to an account of a local network",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			coins, err := sdk.ParseCoinsNormalized(args[1])
			if err != nil {
				return fmt.Errorf("invalid coins: %w", err)
			}
			a, err := holder.App(cmd)
			if err != nil {
				return err
			}
			if err := a.Ledger.MintCoins(cmd.Context(), addr, coins); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "funded %s with %s\n", addr, coins)
			return nil
		},
	}
}

// InvariantsCmd returns a command that runs every CLMM invariant.
func InvariantsCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "check-invariants",
		Short: "Check every invariant of the committed state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := holder.App(cmd)
			if err != nil {
				return err
			}

			broken := 0
			for _, route := range keeper.Invariants(*a.CLMMKeeper) {
				res, stop := route.Invariant(cmd.Context())
				status := "ok"
				if stop {
					status = "BROKEN"
					broken++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", route.Name, status)
				if stop {
					fmt.Fprintln(cmd.OutOrStdout(), res)
				}
			}
			if broken > 0 {
				return fmt.Errorf("%d invariants broken", broken)
			}
			return nil
		},
	}
}
