package clients

import (
	"context"

	"github.com/vitwit/walletlink/logger"
	"github.com/vitwit/walletlink/types"
)

// LoggingHost implements every host capability by writing a log entry. It is
// the default for capabilities the host did not supply, and backs the CLI.
type LoggingHost struct {
	Log logger.Logger
}

var (
	_ Handshake            = loggingHandshake{}
	_ Navigator            = LoggingHost{}
	_ Dispatcher           = LoggingHost{}
	_ PairingSession       = LoggingHost{}
	_ AppSwitcher          = LoggingHost{}
	_ TransactionSubmitter = LoggingHost{}
)

func (h LoggingHost) log() logger.Logger {
	if h.Log == nil {
		return logger.NoopLogger{}
	}
	return h.Log
}

func (h LoggingHost) Navigate(nav types.Navigation) {
	fields := map[string]any{"screen": nav.Screen}
	if nav.URL != "" {
		fields["url"] = nav.URL
	}
	if nav.Intent != nil {
		fields["target"] = nav.Intent.TargetAddress
		fields["function"] = nav.Intent.FunctionName
		fields["chainId"] = nav.Intent.ChainID
	}
	h.log().Info("navigate", fields)
}

func (h LoggingHost) ShowAlert(alert types.Alert) {
	h.log().Warn("alert", map[string]any{"kind": alert.Kind, "title": alert.Title, "message": alert.Message})
}

func (h LoggingHost) ShowWarning(w types.Warning) {
	h.log().Info("warning", map[string]any{"title": w.Title, "message": w.Message, "duration": w.Duration.String()})
}

func (h LoggingHost) Connect(_ context.Context, uri, redirect, originID string) error {
	h.log().Info("pairing session connect", map[string]any{"uri": uri, "redirect": redirect, "origin": originID})
	return nil
}

func (h LoggingHost) Bind(context.Context) error {
	h.log().Info("handshake bind", nil)
	return nil
}

// Handshake returns the Handshake view of the host. LoggingHost's own Connect
// method belongs to PairingSession.
func (h LoggingHost) Handshake() Handshake {
	return loggingHandshake{h}
}

func (h LoggingHost) ReturnToPreviousApp() {
	h.log().Info("return to previous app", nil)
}

func (h LoggingHost) Submit(_ context.Context, tx types.TransactionRequest) error {
	h.log().Info("submit transaction", map[string]any{
		"from":            tx.From.Hex(),
		"to":              tx.To.Hex(),
		"value":           tx.Value.String(),
		"data":            tx.Data.String(),
		"origin":          tx.Origin,
		"deviceConfirmed": tx.DeviceConfirmed,
	})
	return nil
}

type loggingHandshake struct {
	h LoggingHost
}

func (l loggingHandshake) Bind(ctx context.Context) error {
	return l.h.Bind(ctx)
}

func (l loggingHandshake) Connect(_ context.Context, req types.HandshakeRequest) error {
	l.h.log().Info("handshake connect", map[string]any{
		"channelId": req.ChannelID,
		"context":   req.Context,
		"origin":    req.OriginID,
	})
	return nil
}
