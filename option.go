package walletlink

import (
	"time"

	"github.com/vitwit/walletlink/clients"
	"github.com/vitwit/walletlink/logger"
	"github.com/vitwit/walletlink/metrics"
	"github.com/vitwit/walletlink/types"
)

type Option func(*Engine)

func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// WithTimeout bounds each background pairing task.
func WithTimeout(t time.Duration) Option {
	return func(e *Engine) {
		e.timeout = t
	}
}

func WithConfig(c *types.Config) Option {
	return func(e *Engine) {
		e.config = c
	}
}

func WithPairingSession(s clients.PairingSession) Option {
	return func(e *Engine) {
		e.session = s
	}
}

func WithHandshake(h clients.Handshake) Option {
	return func(e *Engine) {
		e.handshake = h
	}
}

func WithAppSwitcher(s clients.AppSwitcher) Option {
	return func(e *Engine) {
		e.switcher = s
	}
}

func WithTransactions(t clients.TransactionSubmitter) Option {
	return func(e *Engine) {
		e.txs = t
	}
}

func WithAccounts(a clients.AccountSource) Option {
	return func(e *Engine) {
		e.accounts = a
	}
}

func WithResolver(r clients.AddressResolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

func WithNetworkProvider(p clients.NetworkProvider) Option {
	return func(e *Engine) {
		e.provider = p
	}
}
