// Package clients defines the host capabilities the router calls into, plus
// a few concrete implementations backed by go-ethereum.
package clients

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vitwit/walletlink/types"
)

// Navigator is the host UI navigation stack.
type Navigator interface {
	Navigate(nav types.Navigation)
}

// Dispatcher pushes user-visible state into the host UI.
type Dispatcher interface {
	ShowAlert(alert types.Alert)
	ShowWarning(warning types.Warning)
}

// PairingSession opens peer-to-peer pairing sessions from a pairing URI.
type PairingSession interface {
	Connect(ctx context.Context, uri, redirect, originID string) error
}

// Handshake is the SDK-level pairing with a companion application.
type Handshake interface {
	Bind(ctx context.Context) error
	Connect(ctx context.Context, req types.HandshakeRequest) error
}

// AppSwitcher returns the user to the application that opened the wallet.
type AppSwitcher interface {
	ReturnToPreviousApp()
}

// TransactionSubmitter hands an unsigned transaction to the confirmation flow.
type TransactionSubmitter interface {
	Submit(ctx context.Context, tx types.TransactionRequest) error
}

// AccountSource exposes the currently selected account.
type AccountSource interface {
	SelectedAddress() common.Address
}

// AddressResolver turns a recipient string (hex or name) into an address.
type AddressResolver interface {
	Resolve(ctx context.Context, recipient string) (common.Address, error)
}

// NetworkProvider is the active network/provider controller.
type NetworkProvider interface {
	ActiveChainID() string
	SwitchNetwork(ctx context.Context, network types.NetworkInfo) error
}
