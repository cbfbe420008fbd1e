package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Scheme is the protocol token that precedes ':' in a deeplink.
type Scheme string

const (
	SchemeHTTP     Scheme = "http"
	SchemeHTTPS    Scheme = "https"
	SchemeWC       Scheme = "wc"       // pairing session
	SchemeEthereum Scheme = "ethereum" // EIP-681 payment request
	SchemeDapp     Scheme = "dapp"     // in-app browser
	SchemeMetaMask Scheme = "metamask" // wallet custom scheme
)

func (s Scheme) String() string {
	return string(s)
}

// IsWeb reports whether the scheme is plain http or https.
func (s Scheme) IsWeb() bool {
	return s == SchemeHTTP || s == SchemeHTTPS
}

// DeeplinkURL is a parsed deeplink. It is never modified after parsing.
type DeeplinkURL struct {
	// Raw is the input string exactly as received.
	Raw string `json:"raw"`

	Scheme       Scheme   `json:"scheme"`
	Host         string   `json:"host,omitempty"`
	PathSegments []string `json:"pathSegments,omitempty"`
	RawQuery     string   `json:"rawQuery,omitempty"`

	// Href is the normalized form used for browser navigation.
	Href string `json:"href"`
}

// FirstSegment returns the first non-empty path segment, or "".
func (u *DeeplinkURL) FirstSegment() string {
	for _, s := range u.PathSegments {
		if s != "" {
			return s
		}
	}
	return ""
}

// PairingParams holds the query parameters recognized on every scheme.
type PairingParams struct {
	URI       string `json:"uri"`
	Redirect  string `json:"redirect"`
	ChannelID string `json:"channelId"`
	Comm      string `json:"comm"`
	PubKey    string `json:"pubkey"`
}

// FunctionName is the method part of a payment URI.
type FunctionName string

const (
	FunctionNone     FunctionName = "none"
	FunctionTransfer FunctionName = "transfer"
	FunctionApprove  FunctionName = "approve"
)

// ParseFunctionName maps a raw method name onto the closed set of known
// functions. Anything unrecognized becomes FunctionNone.
func ParseFunctionName(name string) FunctionName {
	switch FunctionName(name) {
	case FunctionTransfer:
		return FunctionTransfer
	case FunctionApprove:
		return FunctionApprove
	default:
		return FunctionNone
	}
}

// Common payment URI parameter keys.
const (
	ParamAddress = "address"
	ParamUint256 = "uint256"
	ParamValue   = "value"
)

// PaymentIntent is a decoded EIP-681 payment request.
type PaymentIntent struct {
	TargetAddress string            `json:"targetAddress"`
	ChainID       string            `json:"chainId,omitempty"`
	FunctionName  FunctionName      `json:"functionName"`
	Parameters    map[string]string `json:"parameters,omitempty"`

	// Raw is the original URI, kept for display and audit.
	Raw string `json:"raw"`
}

// Param returns the named parameter, or "" if absent.
func (p *PaymentIntent) Param(key string) string {
	if p.Parameters == nil {
		return ""
	}
	return p.Parameters[key]
}

// Screen identifies a host UI destination.
type Screen string

const (
	ScreenSendToken       Screen = "send_token"
	ScreenSendNative      Screen = "send_native"
	ScreenChooseRecipient Screen = "choose_recipient"
	ScreenWalletHome      Screen = "wallet_home"
	ScreenBuyCrypto       Screen = "buy_crypto"
	ScreenBrowser         Screen = "browser"
)

// Navigation is a request to the host UI to show a screen.
type Navigation struct {
	Screen   Screen         `json:"screen"`
	Intent   *PaymentIntent `json:"intent,omitempty"`
	URL      string         `json:"url,omitempty"`
	OriginID string         `json:"originId,omitempty"`
}

// AlertKind classifies user-visible alerts.
type AlertKind string

const (
	AlertInvalidLink      AlertKind = "invalid_link"
	AlertInvalidRecipient AlertKind = "invalid_recipient"
	AlertMissingNetworkID AlertKind = "missing_network_id"
	AlertNetworkNotFound  AlertKind = "network_not_found"
	AlertError            AlertKind = "error"
)

// Alert is a modal error shown to the user.
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// Warning is a time-limited notification.
type Warning struct {
	Title       string        `json:"title"`
	Message     string        `json:"message"`
	Duration    time.Duration `json:"duration"`
	Dismissable bool          `json:"dismissable"`
}

// TransactionRequest is an unsigned transaction handed to the submission
// collaborator.
type TransactionRequest struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *big.Int       `json:"value"`
	Data  hexutil.Bytes  `json:"data"`

	Origin          string `json:"origin"`
	DeviceConfirmed bool   `json:"deviceConfirmed"`
}

// HandshakeRequest carries the parameters of an SDK pairing connect.
type HandshakeRequest struct {
	ChannelID string `json:"channelId" validate:"required"`
	PubKey    string `json:"pubkey"`
	Comm      string `json:"comm"`
	Context   string `json:"context" validate:"required"`
	OriginID  string `json:"originId"`
}

// HandshakeContextUniversal tags handshakes started from a universal or
// custom-scheme link.
const HandshakeContextUniversal = "deeplink_universal"

// RouteOptions tunes a single Route call.
type RouteOptions struct {
	// BrowserFallback, if set, receives web URLs instead of the navigator.
	BrowserFallback func(url string)

	// OriginID identifies who handed over the URL (QR, OS, browser tab).
	OriginID string

	// OnHandled is invoked once when routing takes ownership of the URL.
	OnHandled func()
}

// Config holds the engine configuration.
type Config struct {
	UniversalHost string            `json:"universalHost" mapstructure:"universal_host" validate:"required,hostname"`
	StoreLinks    []string          `json:"storeLinks" mapstructure:"store_links" validate:"dive,url"`
	Schemes       SchemeConfig      `json:"schemes" mapstructure:"schemes"`
	ProtocolTable map[string]string `json:"protocolTable" mapstructure:"protocol_table"`
	Networks      []NetworkInfo     `json:"networks" mapstructure:"networks" validate:"dive"`
	ActiveChainID string            `json:"activeChainId" mapstructure:"active_chain_id" validate:"omitempty,numeric"`

	MaxRewrites    int    `json:"maxRewrites" mapstructure:"max_rewrites" validate:"gte=1,lte=16"`
	WarningSeconds int    `json:"warningSeconds" mapstructure:"warning_seconds" validate:"gte=1"`
	LogLevel       string `json:"logLevel,omitempty" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	EnableMetrics  bool   `json:"enableMetrics,omitempty" mapstructure:"enable_metrics"`
}

// SchemeConfig names the configurable schemes.
type SchemeConfig struct {
	PairingSession Scheme `json:"pairingSession" mapstructure:"pairing_session" validate:"required"`
	Payment        Scheme `json:"payment" mapstructure:"payment" validate:"required"`
	Dapp           Scheme `json:"dapp" mapstructure:"dapp" validate:"required"`
	Wallet         Scheme `json:"wallet" mapstructure:"wallet" validate:"required"`
}

// UniversalBase returns the https base of universal links, without a trailing slash.
func (c *Config) UniversalBase() string {
	return "https://" + c.UniversalHost
}

// WarningDuration returns how long network switch warnings stay visible.
func (c *Config) WarningDuration() time.Duration {
	if c.WarningSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.WarningSeconds) * time.Second
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		UniversalHost: "metamask.app.link",
		StoreLinks: []string{
			"https://metamask.app.link/skAH3BaF99",
			"https://metamask.test-app.link/skAH3BaF99",
		},
		Schemes: SchemeConfig{
			PairingSession: SchemeWC,
			Payment:        SchemeEthereum,
			Dapp:           SchemeDapp,
			Wallet:         SchemeMetaMask,
		},
		ProtocolTable: map[string]string{
			"dapp":    "https://",
			"send":    "ethereum:",
			"approve": "ethereum:",
		},
		Networks:       DefaultNetworks(),
		ActiveChainID:  "1",
		MaxRewrites:    4,
		WarningSeconds: 5,
		LogLevel:       "info",
	}
}
