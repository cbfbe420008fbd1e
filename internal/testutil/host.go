// Package testutil provides a recording host for package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vitwit/walletlink/types"
)

// SessionConnect is one recorded pairing-session connect.
type SessionConnect struct {
	URI      string
	Redirect string
	OriginID string
}

// Host records every call made on it. Set the *Err fields to make the
// corresponding capability fail.
type Host struct {
	mu sync.Mutex

	Navigations     []types.Navigation
	Alerts          []types.Alert
	Warnings        []types.Warning
	Sessions        []SessionConnect
	Handshakes      []types.HandshakeRequest
	Binds           int
	Returns         int
	Transactions    []types.TransactionRequest
	Switches        []types.NetworkInfo
	BrowserFallback []string

	// Events lists navigations, warnings, switches and submissions in call
	// order, e.g. "switch:137", "warning", "navigate:send_native", "submit".
	Events []string

	ChainID  string
	Account  common.Address
	Resolved map[string]common.Address

	SessionErr error
	BindErr    error
	SwitchErr  error
	SubmitErr  error
}

// NewHost returns a host on chain 1.
func NewHost() *Host {
	return &Host{
		ChainID:  "1",
		Account:  common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		Resolved: map[string]common.Address{},
	}
}

func (h *Host) Navigate(nav types.Navigation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Navigations = append(h.Navigations, nav)
	h.Events = append(h.Events, "navigate:"+string(nav.Screen))
}

func (h *Host) ShowAlert(alert types.Alert) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Alerts = append(h.Alerts, alert)
}

func (h *Host) ShowWarning(w types.Warning) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Warnings = append(h.Warnings, w)
	h.Events = append(h.Events, "warning")
}

func (h *Host) Connect(_ context.Context, uri, redirect, originID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Sessions = append(h.Sessions, SessionConnect{URI: uri, Redirect: redirect, OriginID: originID})
	return h.SessionErr
}

func (h *Host) ReturnToPreviousApp() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Returns++
}

func (h *Host) Submit(_ context.Context, tx types.TransactionRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Transactions = append(h.Transactions, tx)
	h.Events = append(h.Events, "submit")
	return h.SubmitErr
}

func (h *Host) SelectedAddress() common.Address {
	return h.Account
}

func (h *Host) ActiveChainID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ChainID
}

func (h *Host) SwitchNetwork(_ context.Context, n types.NetworkInfo) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Switches = append(h.Switches, n)
	h.Events = append(h.Events, "switch:"+n.ChainID)
	if h.SwitchErr != nil {
		return h.SwitchErr
	}
	h.ChainID = n.ChainID
	return nil
}

// Fallback records URLs handed to a RouteOptions.BrowserFallback.
func (h *Host) Fallback(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.BrowserFallback = append(h.BrowserFallback, url)
}

// Handshake returns the Handshake view of the host.
func (h *Host) Handshake() *Handshake {
	return &Handshake{h: h}
}

// Handshake records SDK pairing calls on its Host.
type Handshake struct {
	h *Host
}

func (s *Handshake) Bind(context.Context) error {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	s.h.Binds++
	return s.h.BindErr
}

func (s *Handshake) Connect(_ context.Context, req types.HandshakeRequest) error {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	s.h.Handshakes = append(s.h.Handshakes, req)
	return nil
}

// Resolver resolves from Host.Resolved, falling back to hex parsing.
func (h *Host) Resolver() *Resolver {
	return &Resolver{h: h}
}

type Resolver struct {
	h *Host
}

func (r *Resolver) Resolve(_ context.Context, recipient string) (common.Address, error) {
	if a, ok := r.h.Resolved[recipient]; ok {
		return a, nil
	}
	if common.IsHexAddress(recipient) {
		return common.HexToAddress(recipient), nil
	}
	return common.Address{}, &types.WalletLinkError{Code: types.ErrRecipientResolution, Message: "unresolvable recipient"}
}
