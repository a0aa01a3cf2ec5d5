package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/paw-clmm/app"
	"github.com/paw-chain/paw-clmm/x/clmm/fixedpoint"
	clmmtypes "github.com/paw-chain/paw-clmm/x/clmm/types"
	ledgertypes "github.com/paw-chain/paw-clmm/x/ledger/types"
)

var (
	lp     = sdk.AccAddress("lp__________________")
	trader = sdk.AccAddress("trader______________")
)

func testConfig(t *testing.T) app.Config {
	cfg := app.DefaultConfig()
	cfg.Home = t.TempDir()
	cfg.DBBackend = string(dbm.MemDBBackend)
	return cfg
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.NewWithDB(testConfig(t), dbm.NewMemDB(), log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })
	return a
}

func fundedGenesis(t *testing.T) app.GenesisState {
	t.Helper()
	coins := sdk.NewCoins(sdk.NewInt64Coin("uatom", 1_000_000_000_000), sdk.NewInt64Coin("uusdc", 1_000_000_000_000))
	genesis, err := app.NewGenesisState(&ledgertypes.GenesisState{Balances: []ledgertypes.Balance{
		{Address: lp.String(), Coins: coins},
		{Address: trader.String(), Coins: coins},
	}}, clmmtypes.DefaultGenesis())
	require.NoError(t, err)
	return genesis
}

// trade opens a pool, provides liquidity and swaps through the msg server.
func trade(t *testing.T, a *app.App) clmmtypes.PoolID {
	t.Helper()
	ctx := context.Background()

	open, err := a.MsgServer.OpenPool(clmmtypes.WithCaller(ctx, lp.String()), &clmmtypes.MsgOpenPool{
		Creator:          lp.String(),
		AssetA:           "uatom",
		AssetB:           "uusdc",
		InitialSqrtPrice: fixedpoint.ToInt(fixedpoint.Q64()),
		TickSpacing:      10,
		FeeRateBps:       30,
	})
	require.NoError(t, err)

	_, err = a.MsgServer.AddLiquidity(clmmtypes.WithCaller(ctx, lp.String()), &clmmtypes.MsgAddLiquidity{
		PositionRef: clmmtypes.PositionRef{Owner: lp.String(), PoolId: open.PoolId, TickLower: -100, TickUpper: 100},
		Liquidity:   math.NewInt(1_000_000_000_000),
		AmountAMax:  math.NewInt(10_000_000_000),
		AmountBMax:  math.NewInt(10_000_000_000),
	})
	require.NoError(t, err)

	resp, err := a.MsgServer.SwapExactIn(clmmtypes.WithCaller(ctx, trader.String()), &clmmtypes.MsgSwapExactIn{
		Trader:       trader.String(),
		PoolId:       open.PoolId,
		Direction:    clmmtypes.DirectionAToB,
		AmountIn:     math.NewInt(500),
		MinAmountOut: math.NewInt(1),
	})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(497), resp.Result.AmountOut)
	return open.PoolId
}

func TestApp_InitChainAndTrade(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.InitChain(ctx, fundedGenesis(t)))
	require.Equal(t, math.NewInt(1_000_000_000_000), a.Ledger.GetBalance(ctx, trader, "uatom").Amount)

	id := trade(t, a)

	events := a.Events.Drain()
	require.NotEmpty(t, events)
	require.Equal(t, clmmtypes.EventTypePoolOpened, events[0].Type)
	require.Empty(t, a.Events.Drain())

	pool, err := a.CLMMKeeper.GetPool(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int32(-1), pool.CurrentTick)
	require.NoError(t, a.CLMMKeeper.CheckInvariants(ctx))
}

func TestApp_GenesisRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestApp(t)
	require.NoError(t, src.InitChain(ctx, fundedGenesis(t)))
	trade(t, src)

	exported, err := src.ExportGenesis(ctx)
	require.NoError(t, err)
	require.NoError(t, exported.Validate())
	bz, err := json.Marshal(exported)
	require.NoError(t, err)

	var imported app.GenesisState
	require.NoError(t, json.Unmarshal(bz, &imported))
	dst := newTestApp(t)
	require.NoError(t, dst.InitChain(ctx, imported))

	reexported, err := dst.ExportGenesis(ctx)
	require.NoError(t, err)
	rebz, err := json.Marshal(reexported)
	require.NoError(t, err)
	require.JSONEq(t, string(bz), string(rebz))

	// the vaults travel with the ledger, so the pool stays solvent
	pools, err := dst.CLMMKeeper.GetAllPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.True(t, dst.Ledger.GetBalance(ctx, pools[0].VaultA, "uatom").Amount.IsPositive())
}

func TestApp_InitChainRejectsUnknownModule(t *testing.T) {
	a := newTestApp(t)
	genesis := app.NewDefaultGenesisState()
	genesis["staking"] = json.RawMessage(`{}`)
	require.ErrorContains(t, a.InitChain(context.Background(), genesis), "unknown module")
}

func TestGenesisState_DefaultsMissingModules(t *testing.T) {
	ledgerGenesis, clmmGenesis, err := app.GenesisState{}.Decode()
	require.NoError(t, err)
	require.Empty(t, ledgerGenesis.Balances)
	require.Empty(t, clmmGenesis.Pools)
	require.NoError(t, app.NewDefaultGenesisState().Validate())
}

func TestNew_OpensDatabaseUnderHome(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBBackend = string(dbm.GoLevelDBBackend)

	a, err := app.New(cfg, log.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, a.InitChain(context.Background(), fundedGenesis(t)))
	require.NoError(t, a.Close())

	_, err = os.Stat(filepath.Join(cfg.DataDir(), app.AppName+".db"))
	require.NoError(t, err)

	reopened, err := app.New(cfg, log.NewNopLogger())
	require.NoError(t, err)
	defer reopened.Close()
	require.Equal(t, math.NewInt(1_000_000_000_000), reopened.Ledger.GetBalance(context.Background(), lp, "uusdc").Amount)
}

func TestReadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		v := viper.New()
		v.Set(app.FlagHome, t.TempDir())
		cfg, err := app.ReadConfig(v)
		require.NoError(t, err)
		def := app.DefaultConfig()
		require.Equal(t, def.DBBackend, cfg.DBBackend)
		require.Equal(t, def.LogLevel, cfg.LogLevel)
		require.Equal(t, def.MaxSwapSteps, cfg.MaxSwapSteps)
	})

	t.Run("config file", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0o750))
		toml := "[clmm]\nmax-swap-steps = 50\nlog-format = \"json\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(home, "config", "app.toml"), []byte(toml), 0o600))

		v := viper.New()
		v.Set(app.FlagHome, home)
		cfg, err := app.ReadConfig(v)
		require.NoError(t, err)
		require.Equal(t, uint32(50), cfg.MaxSwapSteps)
		require.Equal(t, app.LogFormatJSON, cfg.LogFormat)
	})

	t.Run("environment beats file", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(home, "config", "app.toml"), []byte("[clmm]\nmax-swap-steps = 50\n"), 0o600))
		t.Setenv("CLMM_MAX_SWAP_STEPS", "7")

		v := viper.New()
		v.Set(app.FlagHome, home)
		cfg, err := app.ReadConfig(v)
		require.NoError(t, err)
		require.Equal(t, uint32(7), cfg.MaxSwapSteps)
	})

	t.Run("invalid", func(t *testing.T) {
		v := viper.New()
		v.Set(app.FlagHome, t.TempDir())
		v.Set(app.FlagDBBackend, "rocksdb")
		_, err := app.ReadConfig(v)
		require.ErrorContains(t, err, "unsupported db backend")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*app.Config)
	}{
		{"empty home", func(c *app.Config) { c.Home = "" }},
		{"log format", func(c *app.Config) { c.LogFormat = "xml" }},
		{"metrics port", func(c *app.Config) { c.MetricsPort = 70000 }},
		{"swap steps", func(c *app.Config) { c.MaxSwapSteps = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			require.NoError(t, cfg.Validate())
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "warn"
	cfg.LogFormat = app.LogFormatJSON

	var buf bytes.Buffer
	logger, err := app.NewLogger(cfg, &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "pool", "uatom/uusdc")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"pool":"uatom/uusdc"`)

	cfg.LogLevel = "loud"
	_, err = app.NewLogger(cfg, &buf)
	require.Error(t, err)
}
