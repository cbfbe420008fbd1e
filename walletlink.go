// Package walletlink routes deeplinks handed to a wallet (OS links, QR codes,
// in-app browser navigations, paired apps) to the flow that owns them:
// EIP-681 payment requests, pairing handshakes, web navigation and buy flows.
package walletlink

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vitwit/walletlink/clients"
	"github.com/vitwit/walletlink/config"
	"github.com/vitwit/walletlink/ethuri"
	"github.com/vitwit/walletlink/logger"
	"github.com/vitwit/walletlink/metrics"
	"github.com/vitwit/walletlink/network"
	"github.com/vitwit/walletlink/pending"
	"github.com/vitwit/walletlink/protocol"
	"github.com/vitwit/walletlink/router"
	"github.com/vitwit/walletlink/scheduler"
	"github.com/vitwit/walletlink/types"
)

var tokenIssued atomic.Bool

// Token is the one-time right to build the process-wide Engine. Only one
// token is ever issued.
type Token struct {
	issued bool
	once   sync.Once
	engine *Engine
	err    error
}

// AcquireToken issues the process's init token. Later calls fail with
// ALREADY_INITIALIZED.
func AcquireToken() (*Token, error) {
	if !tokenIssued.CompareAndSwap(false, true) {
		return nil, &types.WalletLinkError{
			Code:    types.ErrAlreadyInitialized,
			Message: "init token already issued",
		}
	}
	return &Token{issued: true}, nil
}

// Engine is the deeplink routing context. Build it once with Init and pass it
// to every call site.
type Engine struct {
	config  *types.Config
	logger  logger.Logger
	metrics metrics.Recorder
	timeout time.Duration

	navigator  clients.Navigator
	dispatcher clients.Dispatcher
	session    clients.PairingSession
	handshake  clients.Handshake
	switcher   clients.AppSwitcher
	txs        clients.TransactionSubmitter
	accounts   clients.AccountSource
	resolver   clients.AddressResolver
	provider   clients.NetworkProvider

	table    *protocol.Table
	registry *network.Registry
	sched    *scheduler.Scheduler
	router   *router.Router
	pending  *pending.Store
}

// Init consumes tok and builds the Engine. Calling Init again with the same
// token returns the engine built the first time and ignores the arguments.
// Tokens not obtained from AcquireToken are rejected.
func Init(tok *Token, navigator clients.Navigator, dispatcher clients.Dispatcher, opts ...Option) (*Engine, error) {
	if tok == nil || !tok.issued {
		return nil, &types.WalletLinkError{
			Code:    types.ErrAlreadyInitialized,
			Message: "init token was not issued by AcquireToken",
		}
	}
	tok.once.Do(func() {
		tok.engine, tok.err = newEngine(navigator, dispatcher, opts...)
	})
	return tok.engine, tok.err
}

func newEngine(navigator clients.Navigator, dispatcher clients.Dispatcher, opts ...Option) (*Engine, error) {
	if navigator == nil || dispatcher == nil {
		return nil, &types.WalletLinkError{
			Code:    types.ErrConfigError,
			Message: "navigator and dispatcher are required",
		}
	}

	e := &Engine{
		navigator:  navigator,
		dispatcher: dispatcher,
		timeout:    30 * time.Second,
		pending:    pending.New(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.config == nil {
		e.config = types.DefaultConfig()
	}
	if err := config.Validate(e.config); err != nil {
		return nil, err
	}
	if e.logger == nil {
		e.logger = logger.NewZapLogger(e.config.LogLevel)
	}
	if e.metrics == nil {
		if e.config.EnableMetrics {
			e.metrics = metrics.NewPrometheusRecorder(nil)
		} else {
			e.metrics = metrics.NoopRecorder{}
		}
	}

	table, err := protocol.NewTable(e.config.ProtocolTable, e.config.UniversalBase())
	if err != nil {
		return nil, err
	}
	registry, err := network.NewRegistry(e.config.Networks)
	if err != nil {
		return nil, err
	}
	e.table, e.registry = table, registry

	stand := clients.LoggingHost{Log: e.logger}
	if e.session == nil {
		e.session = stand
	}
	if e.handshake == nil {
		e.handshake = stand.Handshake()
	}
	if e.switcher == nil {
		e.switcher = stand
	}
	if e.txs == nil {
		e.txs = stand
	}
	if e.accounts == nil {
		e.accounts = clients.StaticAccount{}
	}
	if e.resolver == nil {
		e.resolver = clients.HexResolver{}
	}
	if e.provider == nil {
		e.provider = clients.NewStaticNetworkProvider(e.config.ActiveChainID)
	}

	e.sched = scheduler.New(e.logger, e.metrics, e.timeout)

	guard := network.NewGuard(registry, e.provider, e.dispatcher, e.config, e.logger, e.metrics)
	payments := ethuri.NewHandler(ethuri.Deps{
		Navigator:    e.navigator,
		Dispatcher:   e.dispatcher,
		Guard:        guard,
		Transactions: e.txs,
		Accounts:     e.accounts,
		Resolver:     e.resolver,
		Logger:       e.logger,
		Metrics:      e.metrics,
	})

	e.router = router.New(e.config, table, router.Deps{
		Navigator:   e.navigator,
		Dispatcher:  e.dispatcher,
		Session:     e.session,
		Handshake:   e.handshake,
		AppSwitcher: e.switcher,
		Payments:    payments,
		Scheduler:   e.sched,
		Logger:      e.logger,
		Metrics:     e.metrics,
	})

	e.logger.Info("walletlink initialized", map[string]any{
		"universalHost": e.config.UniversalHost,
		"networks":      len(e.config.Networks),
	})
	return e, nil
}

// Route dispatches url and reports whether its scheme is recognized.
func (e *Engine) Route(ctx context.Context, url string, opts types.RouteOptions) bool {
	return e.router.Route(ctx, url, opts)
}

// SetPending stages url for later routing, replacing any unconsumed value.
func (e *Engine) SetPending(url string) {
	e.pending.Set(url)
}

// GetPending returns the staged url without clearing it.
func (e *Engine) GetPending() (string, bool) {
	return e.pending.Get()
}

// ExpirePending clears the staged url.
func (e *Engine) ExpirePending() {
	e.pending.Expire()
}

// RoutePending takes the staged url, if any, and routes it. ok is false when
// nothing was staged.
func (e *Engine) RoutePending(ctx context.Context, opts types.RouteOptions) (handled, ok bool) {
	url, ok := e.pending.Take()
	if !ok {
		return false, false
	}
	return e.Route(ctx, url, opts), true
}

// RunPending runs browser navigations deferred by Route. Hosts call it once
// their current interaction or animation finishes.
func (e *Engine) RunPending() int {
	return e.sched.RunPending()
}

// Wait blocks until background pairing tasks finish.
func (e *Engine) Wait() {
	e.sched.Wait()
}

// Config returns the active configuration.
func (e *Engine) Config() *types.Config {
	return e.config
}

// ProtocolTable returns the loop-back rewrite table.
func (e *Engine) ProtocolTable() *protocol.Table {
	return e.table
}

// Networks returns the known networks ordered by chain id.
func (e *Engine) Networks() []types.NetworkInfo {
	return e.registry.Networks()
}

// Close cancels background tasks and waits for them.
func (e *Engine) Close() {
	e.sched.Close()
	if z, ok := e.logger.(*logger.ZapLogger); ok {
		_ = z.Sync()
	}
}

// Version information
const Version = "1.0.0"
