package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"

	clmmkeeper "github.com/paw-chain/paw-clmm/x/clmm/keeper"
	clmmtypes "github.com/paw-chain/paw-clmm/x/clmm/types"
	ledgerkeeper "github.com/paw-chain/paw-clmm/x/ledger/keeper"
	ledgertypes "github.com/paw-chain/paw-clmm/x/ledger/types"
	sharedkeeper "github.com/paw-chain/paw-clmm/x/shared/keeper"
)

// App wires the CLMM module to its ledger and authority services over one
// database.
type App struct {
	Config Config

	DB         dbm.DB
	Ledger     *ledgerkeeper.Keeper
	Authority  sharedkeeper.AddressAuthority
	CLMMKeeper *clmmkeeper.Keeper
	MsgServer  clmmtypes.MsgServer
	Events     *EventLog
	Telemetry  *Telemetry

	logger log.Logger
	ownsDB bool
}

// New opens the database under cfg.Home and builds the application.
func New(cfg Config, logger log.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir(), 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	db, err := dbm.NewDB(AppName, dbm.BackendType(cfg.DBBackend), cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.DBBackend, err)
	}

	a, err := NewWithDB(cfg, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.ownsDB = true
	return a, nil
}

// NewWithDB builds the application over an existing database, which the
// caller keeps ownership of.
func NewWithDB(cfg Config, db dbm.DB, logger log.Logger) (*App, error) {
	SetConfig()

	tel, err := InitTelemetry(TelemetryConfig{
		Enabled:      cfg.Tracing,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   1,
		Metrics:      cfg.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	a := &App{
		Config:    cfg,
		DB:        db,
		Authority: sharedkeeper.NewAddressAuthority(clmmtypes.ModuleName),
		Events:    NewEventLog(logger),
		Telemetry: tel,
		logger:    logger,
	}
	a.Ledger = ledgerkeeper.NewKeeper(db, logger)
	a.CLMMKeeper = clmmkeeper.NewKeeper(
		dbm.NewPrefixDB(db, []byte(clmmtypes.StoreKey+"/")),
		a.Ledger,
		a.Authority,
		logger,
		clmmkeeper.WithEventSink(a.Events),
		clmmkeeper.WithMaxSwapSteps(cfg.MaxSwapSteps),
	)

	msgServer := clmmkeeper.NewMsgServerImpl(a.CLMMKeeper)
	if tel.Enabled() {
		msgServer, err = NewTracedMsgServer(msgServer, tel)
		if err != nil {
			return nil, fmt.Errorf("instrumenting msg server: %w", err)
		}
	}
	a.MsgServer = msgServer
	return a, nil
}

// Logger returns the application logger.
func (a *App) Logger() log.Logger {
	return a.logger
}

// Close flushes telemetry and closes the database if the app opened it.
func (a *App) Close() error {
	var errs []error
	if err := a.Telemetry.Shutdown(context.Background()); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}
	if a.ownsDB {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// InitChain loads a full genesis state: ledger balances first, then the
// CLMM records that refer to them.
func (a *App) InitChain(ctx context.Context, genesis GenesisState) error {
	ledgerGenesis, clmmGenesis, err := genesis.Decode()
	if err != nil {
		return err
	}
	if err := a.Ledger.InitGenesis(ctx, *ledgerGenesis); err != nil {
		return err
	}
	if err := a.CLMMKeeper.InitGenesis(ctx, *clmmGenesis); err != nil {
		return err
	}
	return a.CLMMKeeper.CheckInvariants(ctx)
}

// ExportGenesis exports the state of every module.
func (a *App) ExportGenesis(ctx context.Context) (GenesisState, error) {
	ledgerGenesis, err := a.Ledger.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}
	clmmGenesis, err := a.CLMMKeeper.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}
	return NewGenesisState(ledgerGenesis, clmmGenesis)
}

// NewLogger builds the application logger from the configured level and
// format.
func NewLogger(cfg Config, out io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	opts := []log.Option{log.LevelOption(level)}
	if cfg.LogFormat == LogFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(out, opts...), nil
}

// EventLog collects the events of committed operations so callers can read
// them back after each invocation.
type EventLog struct {
	mu     sync.Mutex
	events []sdk.Event
	logger log.Logger
}

var _ clmmtypes.EventSink = (*EventLog)(nil)

// NewEventLog returns an empty event log.
func NewEventLog(logger log.Logger) *EventLog {
	return &EventLog{logger: logger}
}

// EmitEvent records an event.
func (l *EventLog) EmitEvent(event sdk.Event) {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
	l.logger.Debug("event", "type", event.Type, "attributes", len(event.Attributes))
}

// Drain returns the recorded events and clears the log.
func (l *EventLog) Drain() []sdk.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := l.events
	l.events = nil
	return events
}

// Ensure the ledger satisfies what the CLMM keeper settles against.
var _ clmmtypes.BankKeeper = (*ledgerkeeper.Keeper)(nil)

// ModuleNames lists the modules in genesis order.
var ModuleNames = []string{ledgertypes.ModuleName, clmmtypes.ModuleName}
