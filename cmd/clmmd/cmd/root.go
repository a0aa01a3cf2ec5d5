package cmd

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/paw-clmm/app"
	"github.com/paw-chain/paw-clmm/x/clmm/client/cli"
)

// appHolder opens the application on first use and closes it after the
// command finishes.
type appHolder struct {
	v   *viper.Viper
	app *app.App
}

// Config reads the configuration from flags, environment and app.toml.
func (h *appHolder) Config() (app.Config, error) {
	return app.ReadConfig(h.v)
}

// App returns the application, opening it if needed.
func (h *appHolder) App(cmd *cobra.Command) (*app.App, error) {
	if h.app != nil {
		return h.app, nil
	}
	cfg, err := h.Config()
	if err != nil {
		return nil, err
	}
	logger, err := app.NewLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	h.app = a
	return a, nil
}

// Runtime exposes the application to the module commands.
func (h *appHolder) Runtime(cmd *cobra.Command) (*cli.Runtime, error) {
	a, err := h.App(cmd)
	if err != nil {
		return nil, err
	}
	return &cli.Runtime{
		MsgServer: a.MsgServer,
		Keeper:    a.CLMMKeeper,
		Events:    func() []sdk.Event { return a.Events.Drain() },
	}, nil
}

func (h *appHolder) close() error {
	if h.app == nil {
		return nil
	}
	err := h.app.Close()
	h.app = nil
	return err
}

// NewRootCmd creates a new root command for clmmd. It is called once in the
// main function. The returned func closes the application a command opened
// and must run after Execute, whether or not the command failed.
func NewRootCmd() (*cobra.Command, func() error) {
	app.SetConfig()

	holder := &appHolder{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   app.AppName,
		Short: "PAW concentrated liquidity daemon",
		Long: `clmmd runs concentrated liquidity pools over a local ledger. Every command
opens the database under --home, applies one operation atomically and exits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			return holder.v.BindPFlags(cmd.Flags())
		},
	}

	def := app.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.String(app.FlagHome, def.Home, "directory for config and data")
	pf.String(app.FlagDBBackend, def.DBBackend, "database backend (goleveldb or memdb)")
	pf.String(app.FlagLogLevel, def.LogLevel, "log level (trace|debug|info|warn|error)")
	pf.String(app.FlagLogFormat, def.LogFormat, "log format (plain|json)")
	pf.Bool(app.FlagMetrics, def.Metrics, "export message metrics through Prometheus")
	pf.Int(app.FlagMetricsPort, def.MetricsPort, "port of the metrics and health server")
	pf.Uint32(app.FlagMaxSwapSteps, def.MaxSwapSteps, "maximum number of steps of one swap")
	pf.Bool(app.FlagTracing, def.Tracing, "export OpenTelemetry traces")
	pf.String(app.FlagOTLPEndpoint, def.OTLPEndpoint, "OTLP/HTTP endpoint of the trace collector")

	initRootCmd(rootCmd, holder)
	return rootCmd, holder.close
}

func initRootCmd(rootCmd *cobra.Command, holder *appHolder) {
	rootCmd.AddCommand(
		InitCmd(holder),
		GenesisCmd(holder),
		LedgerCmd(holder),
		InvariantsCmd(holder),
		StartCmd(holder),
		queryCommand(holder),
		txCommand(holder),
	)
}

func queryCommand(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		SuggestionsMinimumDistance: 2,
		RunE:                       groupRunE,
	}
	cmd.AddCommand(cli.GetQueryCmd(holder.Runtime))
	return cmd
}

func txCommand(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Transactions subcommands",
		SuggestionsMinimumDistance: 2,
		RunE:                       groupRunE,
	}
	cmd.AddCommand(cli.GetTxCmd(holder.Runtime))
	return cmd
}

func groupRunE(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return cmd.Help()
}
