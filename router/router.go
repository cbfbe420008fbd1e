// Package router classifies incoming deeplinks by scheme and hands them to
// the flow that owns them.
package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitwit/walletlink/clients"
	"github.com/vitwit/walletlink/ethuri"
	"github.com/vitwit/walletlink/logger"
	"github.com/vitwit/walletlink/metrics"
	"github.com/vitwit/walletlink/protocol"
	"github.com/vitwit/walletlink/scheduler"
	"github.com/vitwit/walletlink/types"
	"github.com/vitwit/walletlink/utils"
)

// Deps groups the router's collaborators. Navigator, Dispatcher, Payments and
// Scheduler are required.
type Deps struct {
	Navigator   clients.Navigator
	Dispatcher  clients.Dispatcher
	Session     clients.PairingSession
	Handshake   clients.Handshake
	AppSwitcher clients.AppSwitcher
	Payments    *ethuri.Handler
	Scheduler   *scheduler.Scheduler
	Logger      logger.Logger
	Metrics     metrics.Recorder
}

type Router struct {
	cfg        *types.Config
	base       string
	table      *protocol.Table
	storeLinks map[string]struct{}

	navigator   clients.Navigator
	dispatcher  clients.Dispatcher
	session     clients.PairingSession
	handshake   clients.Handshake
	appSwitcher clients.AppSwitcher
	payments    *ethuri.Handler
	sched       *scheduler.Scheduler
	log         logger.Logger
	metrics     metrics.Recorder
}

// New builds a router. Missing optional collaborators are replaced by
// logging stand-ins.
func New(cfg *types.Config, table *protocol.Table, d Deps) *Router {
	if cfg == nil {
		cfg = types.DefaultConfig()
	}
	if table == nil {
		table = protocol.DefaultTable()
	}
	if d.Logger == nil {
		d.Logger = logger.NoopLogger{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NoopRecorder{}
	}
	stand := clients.LoggingHost{Log: d.Logger}
	if d.Session == nil {
		d.Session = stand
	}
	if d.Handshake == nil {
		d.Handshake = stand.Handshake()
	}
	if d.AppSwitcher == nil {
		d.AppSwitcher = stand
	}

	storeLinks := make(map[string]struct{}, len(cfg.StoreLinks))
	for _, l := range cfg.StoreLinks {
		storeLinks[l] = struct{}{}
	}

	return &Router{
		cfg:         cfg,
		base:        cfg.UniversalBase(),
		table:       table,
		storeLinks:  storeLinks,
		navigator:   d.Navigator,
		dispatcher:  d.Dispatcher,
		session:     d.Session,
		handshake:   d.Handshake,
		appSwitcher: d.AppSwitcher,
		payments:    d.Payments,
		sched:       d.Scheduler,
		log:         d.Logger,
		metrics:     d.Metrics,
	}
}

// route carries per-call state across loop-back rewrites.
type route struct {
	opts    types.RouteOptions
	claimed bool
}

// claim invokes OnHandled the first time routing takes ownership of the URL.
func (rt *route) claim() {
	if rt.claimed {
		return
	}
	rt.claimed = true
	if rt.opts.OnHandled != nil {
		rt.opts.OnHandled()
	}
}

// Route dispatches raw and reports whether its scheme was recognized. It
// never blocks on pairing or navigation work; those run on the scheduler.
func (r *Router) Route(ctx context.Context, raw string, opts types.RouteOptions) bool {
	start := time.Now()
	rt := &route{opts: opts}
	current := raw
	r.metrics.IncCounter(metrics.RouteTotal, map[string]string{"scheme": schemeLabel(raw)})

	for rewrites := 0; ; rewrites++ {
		if rewrites > r.cfg.MaxRewrites {
			err := &types.WalletLinkError{
				Code:    types.ErrCyclicProtocolTable,
				Message: fmt.Sprintf("link still rewritable after %d rewrites", r.cfg.MaxRewrites),
				Data:    raw,
			}
			r.log.Error("protocol table loop", map[string]any{"url": raw, "last": current, "error": err})
			r.alert(types.AlertInvalidLink, "Invalid link", err.Error(), "")
			return true
		}

		handled, next := r.routeOnce(ctx, current, rt)
		if next == "" {
			r.metrics.ObserveLatency(metrics.RouteLatency, time.Since(start), map[string]string{"scheme": schemeLabel(raw)})
			return handled
		}
		r.log.Debug("loop-back rewrite", map[string]any{"from": current, "to": next})
		current = next
	}
}

// routeOnce handles a single URL. A non-empty next means the URL was
// rewritten and must be routed again.
func (r *Router) routeOnce(ctx context.Context, raw string, rt *route) (handled bool, next string) {
	link, err := utils.ParseDeeplink(utils.NormalizeLegacyDapp(raw, r.base))
	if err != nil {
		r.alert(types.AlertInvalidLink, "Invalid link", err.Error(), "")
		return false, ""
	}

	params, err := utils.DecodeQuery(link.RawQuery)
	if err != nil {
		r.alert(types.AlertInvalidLink, "Invalid link", err.Error(), link.Scheme.String())
	}

	switch {
	case link.Scheme.IsWeb():
		rt.claim()
		if _, ok := r.storeLinks[link.Href]; ok {
			// Store redirects land on the app itself.
			return true, ""
		}
		if link.Host != r.cfg.UniversalHost {
			r.openBrowser(link.Href, rt.opts)
			return true, ""
		}
		return true, r.routeUniversal(link, params, rt.opts)

	case link.Scheme == r.cfg.Schemes.PairingSession:
		rt.claim()
		uri := params.URI
		if uri == "" {
			uri = link.Href
		}
		r.connectSession(uri, params.Redirect, rt.opts.OriginID)
		return true, ""

	case link.Scheme == r.cfg.Schemes.Payment:
		rt.claim()
		if err := r.payments.Handle(ctx, link.Href, rt.opts.OriginID); err != nil {
			r.log.Warn("payment link failed", map[string]any{"url": link.Href, "error": err})
			r.alert(types.AlertError, "Error", err.Error(), link.Scheme.String())
		}
		return true, ""

	case link.Scheme == r.cfg.Schemes.Dapp:
		rt.claim()
		r.openBrowser(string(types.SchemeHTTPS)+strings.TrimPrefix(link.Href, link.Scheme.String()), rt.opts)
		return true, ""

	case link.Scheme == r.cfg.Schemes.Wallet:
		rt.claim()
		r.routeWalletScheme(link, params, rt.opts)
		return true, ""

	default:
		r.log.Debug("unrecognized scheme", map[string]any{"scheme": link.Scheme})
		return false, ""
	}
}

// routeUniversal dispatches on the action token of a universal link. It
// returns the rewritten URL when the action loops back through the table.
func (r *Router) routeUniversal(link *types.DeeplinkURL, params types.PairingParams, opts types.RouteOptions) string {
	action := protocol.ParseAction(link.FirstSegment())
	r.metrics.IncCounter(metrics.ActionTotal, map[string]string{"scheme": link.Scheme.String(), "action": action.String()})

	switch action {
	case protocol.ActionBind:
		r.bind()
	case protocol.ActionConnect:
		r.connect(params, opts)
	case protocol.ActionWalletConnect:
		branded := r.base + "/" + action.String() + "/"
		r.connectSession(r.sessionURI(params.URI, strings.TrimPrefix(link.Href, branded)), params.Redirect, opts.OriginID)
	case protocol.ActionDapp, protocol.ActionSend, protocol.ActionApprove:
		if next, ok := r.table.Rewrite(link.Href, r.base, action); ok {
			return next
		}
		r.routeNoAction(link, opts)
	case protocol.ActionBuyCrypto:
		r.navigator.Navigate(types.Navigation{Screen: types.ScreenBuyCrypto, OriginID: opts.OriginID})
	case protocol.ActionFocus:
		// Foregrounding the app is all that is asked for.
	case protocol.ActionNone:
		r.routeNoAction(link, opts)
	}
	return ""
}

// routeNoAction handles universal links without a known action token.
func (r *Router) routeNoAction(link *types.DeeplinkURL, opts types.RouteOptions) {
	href := link.Href
	if strings.HasPrefix(href, r.base) {
		rest := strings.TrimPrefix(strings.TrimPrefix(href, r.base), "/")
		if rest == "" || strings.HasPrefix(rest, "?") || strings.HasPrefix(rest, "#") {
			// Universal root: opening it would show a blank or self-referencing tab.
			return
		}
		r.openBrowser("https://"+rest, opts)
		return
	}
	r.openBrowser(href, opts)
}

// routeWalletScheme matches the raw URL against the wallet scheme's action
// prefixes.
func (r *Router) routeWalletScheme(link *types.DeeplinkURL, params types.PairingParams, opts types.RouteOptions) {
	prefix := r.cfg.Schemes.Wallet.String() + "://"
	href := link.Href

	switch {
	case strings.HasPrefix(href, prefix+protocol.ActionBind.String()):
		r.bind()
	case strings.HasPrefix(href, prefix+protocol.ActionConnect.String()):
		r.connect(params, opts)
	case strings.HasPrefix(href, prefix+protocol.ActionWalletConnect.String()):
		// Both "<prefix>wc/..." and "<prefix>wc..." are in the wild.
		rest := strings.TrimPrefix(href, prefix+protocol.ActionWalletConnect.String())
		rest = strings.TrimPrefix(rest, "/")
		r.connectSession(r.sessionURI(params.URI, r.cfg.Schemes.PairingSession.String()+":"+rest), params.Redirect, opts.OriginID)
	case strings.HasPrefix(href, prefix+protocol.ActionBuyCrypto.String()):
		r.navigator.Navigate(types.Navigation{Screen: types.ScreenBuyCrypto, OriginID: opts.OriginID})
	default:
		r.log.Debug("no action for wallet link", map[string]any{"url": href})
	}
}

// sessionURI picks the pairing URI: the uri parameter when present, else
// candidate if it is a pairing-scheme URI with a non-empty topic.
func (r *Router) sessionURI(param, candidate string) string {
	if param != "" {
		return param
	}
	scheme := r.cfg.Schemes.PairingSession.String() + ":"
	if !strings.HasPrefix(candidate, scheme) {
		return ""
	}
	topic := strings.TrimPrefix(candidate, scheme)
	if i := strings.IndexAny(topic, "?#"); i >= 0 {
		topic = topic[:i]
	}
	if topic == "" {
		return ""
	}
	return candidate
}

func (r *Router) bind() {
	r.sched.Go("handshake.bind", map[string]string{"action": protocol.ActionBind.String()}, func(ctx context.Context) error {
		return r.handshake.Bind(ctx)
	})
}

// connect handles the SDK connect action. A redirect wins over a channel id.
func (r *Router) connect(params types.PairingParams, opts types.RouteOptions) {
	switch {
	case params.Redirect != "":
		r.appSwitcher.ReturnToPreviousApp()
	case params.ChannelID != "":
		req := types.HandshakeRequest{
			ChannelID: params.ChannelID,
			PubKey:    params.PubKey,
			Comm:      params.Comm,
			Context:   types.HandshakeContextUniversal,
			OriginID:  opts.OriginID,
		}
		r.sched.Go("handshake.connect", map[string]string{"action": protocol.ActionConnect.String()}, func(ctx context.Context) error {
			if err := utils.ValidateStruct(&req); err != nil {
				return err
			}
			return r.handshake.Connect(ctx, req)
		})
	}
}

// connectSession starts a pairing session. Empty URIs only foreground the app.
func (r *Router) connectSession(uri, redirect, originID string) {
	if uri == "" {
		return
	}
	r.sched.Go("pairing.connect", map[string]string{"action": protocol.ActionWalletConnect.String()}, func(ctx context.Context) error {
		return r.session.Connect(ctx, uri, redirect, originID)
	})
}

// openBrowser hands url to the caller's fallback, or defers a browser
// navigation until the host's interaction queue drains.
func (r *Router) openBrowser(url string, opts types.RouteOptions) {
	if opts.BrowserFallback != nil {
		opts.BrowserFallback(url)
		return
	}
	nav := types.Navigation{Screen: types.ScreenBrowser, URL: url, OriginID: opts.OriginID}
	r.sched.Defer(func() {
		r.navigator.Navigate(nav)
	})
}

func (r *Router) alert(kind types.AlertKind, title, message, scheme string) {
	r.metrics.IncCounter(metrics.AlertTotal, map[string]string{"scheme": scheme, "action": string(kind)})
	r.dispatcher.ShowAlert(types.Alert{Kind: kind, Title: title, Message: message})
}

func schemeLabel(raw string) string {
	s, _ := utils.SchemeOf(raw)
	return s.String()
}
