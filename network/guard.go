package network

import (
	"context"
	"fmt"
	"time"

	"github.com/vitwit/walletlink/clients"
	"github.com/vitwit/walletlink/logger"
	"github.com/vitwit/walletlink/metrics"
	"github.com/vitwit/walletlink/types"
)

// Guard makes sure the active network matches a payment request's chain id.
type Guard struct {
	registry   *Registry
	provider   clients.NetworkProvider
	dispatcher clients.Dispatcher
	log        logger.Logger
	metrics    metrics.Recorder
	warning    time.Duration
}

// NewGuard wires a guard. cfg supplies the warning duration.
func NewGuard(
	registry *Registry,
	provider clients.NetworkProvider,
	dispatcher clients.Dispatcher,
	cfg *types.Config,
	log logger.Logger,
	rec metrics.Recorder,
) *Guard {
	if cfg == nil {
		cfg = types.DefaultConfig()
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Guard{
		registry:   registry,
		provider:   provider,
		dispatcher: dispatcher,
		log:        log,
		metrics:    rec,
		warning:    cfg.WarningDuration(),
	}
}

// Resolve returns the network to switch to, or ok=false when chainID is
// already active.
func (g *Guard) Resolve(chainID string) (types.NetworkInfo, bool, error) {
	target, found := g.registry.Lookup(chainID)
	if !found {
		return types.NetworkInfo{}, false, &types.WalletLinkError{
			Code:    types.ErrMissingNetworkID,
			Message: fmt.Sprintf("no known network for chain id %s", chainID),
			Data:    chainID,
		}
	}

	active, _ := canonicalChainID(g.provider.ActiveChainID())
	if active == target.ChainID {
		return types.NetworkInfo{}, false, nil
	}
	return target, true, nil
}

// Ensure switches to chainID's network if it is not active and warns the
// user. Requests for the active network are a no-op.
func (g *Guard) Ensure(ctx context.Context, chainID string) error {
	target, needSwitch, err := g.Resolve(chainID)
	if err != nil {
		return err
	}
	if !needSwitch {
		g.log.Debug("requested network already active", map[string]any{"chainId": chainID})
		return nil
	}

	if err := g.provider.SwitchNetwork(ctx, target); err != nil {
		return &types.WalletLinkError{
			Code:    types.ErrNetworkNotFound,
			Message: fmt.Sprintf("failed to switch to chain id %s", chainID),
			Data:    chainID,
			Err:     err,
		}
	}

	g.metrics.IncCounter(metrics.NetworkSwitch, map[string]string{"action": target.Network.String()})
	g.log.Info("switched network", map[string]any{"chainId": target.ChainID, "network": target.Network})

	g.dispatcher.ShowWarning(types.Warning{
		Title:       "Network switched",
		Message:     fmt.Sprintf("Switched to %s", target.Name),
		Duration:    g.warning,
		Dismissable: true,
	})
	return nil
}
