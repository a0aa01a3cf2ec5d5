package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/paw-clmm/app"
	ledgertypes "github.com/paw-chain/paw-clmm/x/ledger/types"
)

const (
	flagOverwrite = "overwrite"
	flagOutput    = "output"
)

func configDir(home string) string {
	return filepath.Join(home, "config")
}

func genesisFile(home string) string {
	return filepath.Join(configDir(home), "genesis.json")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readGenesis(path string) (app.GenesisState, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading genesis: %w", err)
	}
	var genesis app.GenesisState
	if err := json.Unmarshal(bz, &genesis); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return genesis, nil
}

func writeGenesis(path string, genesis app.GenesisState) error {
	bz, err := json.MarshalIndent(genesis, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(bz, '\n'), 0o600)
}

// appTOML renders the [clmm] table of app.toml.
func appTOML(cfg app.Config) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[clmm]\n")
	fmt.Fprintf(&buf, "%s = %q\n", app.FlagDBBackend, cfg.DBBackend)
	fmt.Fprintf(&buf, "%s = %q\n", app.FlagLogLevel, cfg.LogLevel)
	fmt.Fprintf(&buf, "%s = %q\n", app.FlagLogFormat, cfg.LogFormat)
	fmt.Fprintf(&buf, "%s = %t\n", app.FlagMetrics, cfg.Metrics)
	fmt.Fprintf(&buf, "%s = %d\n", app.FlagMetricsPort, cfg.MetricsPort)
	fmt.Fprintf(&buf, "%s = %d\n", app.FlagMaxSwapSteps, cfg.MaxSwapSteps)
	fmt.Fprintf(&buf, "%s = %t\n", app.FlagTracing, cfg.Tracing)
	fmt.Fprintf(&buf, "%s = %q\n", app.FlagOTLPEndpoint, cfg.OTLPEndpoint)
	return buf.Bytes()
}

// InitCmd returns a command that writes app.toml and an empty genesis file
// under the home directory.
func InitCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the configuration and genesis files",
		Long: `Write config/app.toml with the current settings and config/genesis.json
with an empty state for every module.

Example:
  clmmd init --home ~/.clmmd
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := holder.Config()
			if err != nil {
				return err
			}
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)

			genFile := genesisFile(cfg.Home)
			if !overwrite && fileExists(genFile) {
				return fmt.Errorf("genesis.json file already exists: %v", genFile)
			}
			if err := os.MkdirAll(configDir(cfg.Home), 0o750); err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(configDir(cfg.Home), "app.toml"), appTOML(cfg), 0o600); err != nil {
				return fmt.Errorf("writing app.toml: %w", err)
			}
			if err := writeGenesis(genFile, app.NewDefaultGenesisState()); err != nil {
				return fmt.Errorf("writing genesis: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", cfg.Home)
			return nil
		},
	}

	cmd.Flags().Bool(flagOverwrite, false, "overwrite the genesis.json file")
	return cmd
}

// GenesisCmd groups the genesis file commands.
func GenesisCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "genesis",
		Short:                      "Genesis file subcommands",
		SuggestionsMinimumDistance: 2,
		RunE:                       groupRunE,
	}
	cmd.AddCommand(
		AddGenesisAccountCmd(holder),
		ValidateGenesisCmd(holder),
		ImportGenesisCmd(holder),
		ExportGenesisCmd(holder),
	)
	return cmd
}

// genesisPath is args[0] when given, else the genesis file under home.
func genesisPath(holder *appHolder, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := holder.Config()
	if err != nil {
		return "", err
	}
	return genesisFile(cfg.Home), nil
}

// AddGenesisAccountCmd returns a command that adds a balance to genesis.json.
func AddGenesisAccountCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "add-account [address] [coins]",
		Short: "Add a funded account to genesis.json",
		Long: `Add coins to an account in genesis.json. Coins of an existing account are added
to its balance.

Example:
  clmmd genesis add-account paw1... 1000000uatom,1000000uusdc`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			coins, err := sdk.ParseCoinsNormalized(args[1])
			if err != nil {
				return fmt.Errorf("invalid coins: %w", err)
			}

			path, err := genesisPath(holder, nil)
			if err != nil {
				return err
			}
			genesis, err := readGenesis(path)
			if err != nil {
				return err
			}
			ledgerGenesis, clmmGenesis, err := genesis.Decode()
			if err != nil {
				return err
			}

			found := false
			for i, b := range ledgerGenesis.Balances {
				if b.Address == addr.String() {
					ledgerGenesis.Balances[i].Coins = b.Coins.Add(coins...)
					found = true
					break
				}
			}
			if !found {
				ledgerGenesis.Balances = append(ledgerGenesis.Balances, ledgertypes.Balance{Address: addr.String(), Coins: coins})
			}
			if err := ledgerGenesis.Validate(); err != nil {
				return err
			}

			updated, err := app.NewGenesisState(ledgerGenesis, clmmGenesis)
			if err != nil {
				return err
			}
			return writeGenesis(path, updated)
		},
	}
}

// ValidateGenesisCmd returns a command that validates a genesis file.
func ValidateGenesisCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a genesis file, by default the one under --home",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := genesisPath(holder, args)
			if err != nil {
				return err
			}
			genesis, err := readGenesis(path)
			if err != nil {
				return err
			}
			if err := genesis.Validate(); err != nil {
				return fmt.Errorf("genesis file %s is invalid: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "File at %s is a valid genesis file\n", path)
			return nil
		},
	}
}

// ImportGenesisCmd returns a command that loads a genesis file into an empty
// database.
func ImportGenesisCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Load a genesis file, by default the one under --home, into an empty database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := genesisPath(holder, args)
			if err != nil {
				return err
			}
			genesis, err := readGenesis(path)
			if err != nil {
				return err
			}
			if err := genesis.Validate(); err != nil {
				return err
			}

			a, err := holder.App(cmd)
			if err != nil {
				return err
			}
			existing, err := a.ExportGenesis(cmd.Context())
			if err != nil {
				return err
			}
			ledgerGenesis, clmmGenesis, err := existing.Decode()
			if err != nil {
				return err
			}
			if len(ledgerGenesis.Balances) > 0 || len(clmmGenesis.Pools) > 0 {
				return errors.New("database is not empty")
			}

			if err := a.InitChain(cmd.Context(), genesis); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", path)
			return nil
		},
	}
}

// ExportGenesisCmd returns a command that exports the state as genesis.
func ExportGenesisCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the state of every module as genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := holder.App(cmd)
			if err != nil {
				return err
			}
			genesis, err := a.ExportGenesis(cmd.Context())
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString(flagOutput)
			if output != "" {
				return writeGenesis(output, genesis)
			}
			bz, err := json.MarshalIndent(genesis, "", " ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}

	cmd.Flags().String(flagOutput, "", "write the genesis to this file instead of stdout")
	return cmd
}
