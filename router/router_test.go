package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/walletlink/ethuri"
	"github.com/vitwit/walletlink/internal/testutil"
	"github.com/vitwit/walletlink/network"
	"github.com/vitwit/walletlink/protocol"
	"github.com/vitwit/walletlink/scheduler"
	"github.com/vitwit/walletlink/types"
)

const (
	base      = "https://metamask.app.link"
	recipient = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	token     = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
)

type fixture struct {
	host    *testutil.Host
	metrics *testutil.Metrics
	sched   *scheduler.Scheduler
	router  *Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := types.DefaultConfig()
	host := testutil.NewHost()
	rec := testutil.NewMetrics()
	sched := scheduler.New(nil, nil, 0)
	t.Cleanup(sched.Close)

	guard := network.NewGuard(network.DefaultRegistry(), host, host, cfg, nil, nil)
	payments := ethuri.NewHandler(ethuri.Deps{
		Navigator:    host,
		Dispatcher:   host,
		Guard:        guard,
		Transactions: host,
		Accounts:     host,
		Resolver:     host.Resolver(),
	})

	r := New(cfg, protocol.DefaultTable(), Deps{
		Navigator:   host,
		Dispatcher:  host,
		Session:     host,
		Handshake:   host.Handshake(),
		AppSwitcher: host,
		Payments:    payments,
		Scheduler:   sched,
		Metrics:     rec,
	})
	return &fixture{host: host, metrics: rec, sched: sched, router: r}
}

// route routes url and settles all background and deferred work.
func (f *fixture) route(url string, opts types.RouteOptions) bool {
	handled := f.router.Route(context.Background(), url, opts)
	f.sched.Wait()
	f.sched.RunPending()
	return handled
}

func TestRoute_RecognizedSchemes(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com", true},
		{"wc:8a5e5bdc@2?relay-protocol=irn&symKey=abc", true},
		{"ethereum:" + recipient, true},
		{"dapp://uniswap.org", true},
		{"metamask://focus", true},
		{"bitcoin:bc1qxyz", false},
		{"mailto:someone@example.com", false},
		{"HTTPS://example.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			f := newFixture(t)
			assert.Equal(t, tc.want, f.route(tc.url, types.RouteOptions{}))
		})
	}
}

func TestRoute_OnHandledOncePerRecognizedLink(t *testing.T) {
	f := newFixture(t)
	calls := 0
	opts := types.RouteOptions{OnHandled: func() { calls++ }}

	// Rewritten through the table, but claimed only once.
	require.True(t, f.route(base+"/send/"+recipient+"@1", opts))
	assert.Equal(t, 1, calls)

	assert.False(t, f.route("ftp://example.com", opts))
	assert.Equal(t, 1, calls)
}

func TestRoute_UniversalConnectWithChannel(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.route(base+"/connect?channelId=abc&pubkey=xyz", types.RouteOptions{OriginID: "os"}))

	require.Len(t, f.host.Handshakes, 1)
	req := f.host.Handshakes[0]
	assert.Equal(t, "abc", req.ChannelID)
	assert.Equal(t, "xyz", req.PubKey)
	assert.Equal(t, "deeplink_universal", req.Context)
	assert.Equal(t, "os", req.OriginID)
	assert.Zero(t, f.host.Returns)
}

func TestRoute_UniversalConnectRedirect(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.route(base+"/connect?redirect=true&channelId=abc", types.RouteOptions{}))
	assert.Equal(t, 1, f.host.Returns)
	assert.Empty(t, f.host.Handshakes)

	require.True(t, f.route(base+"/connect", types.RouteOptions{}))
	assert.Equal(t, 1, f.host.Returns)
	assert.Empty(t, f.host.Handshakes)
}

func TestRoute_UniversalBind(t *testing.T) {
	f := newFixture(t)
	f.host.BindErr = errors.New("service not bound")

	// Bind failures are logged only.
	require.True(t, f.route(base+"/bind", types.RouteOptions{}))
	assert.Equal(t, 1, f.host.Binds)
	assert.Empty(t, f.host.Alerts)
}

func TestRoute_UniversalWalletConnect(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.route(base+"/wc?uri=wc%3A8a5e5bdc%402%3FsymKey%3Dabc&redirect=true", types.RouteOptions{OriginID: "qr"}))
	require.Len(t, f.host.Sessions, 1)
	assert.Equal(t, "wc:8a5e5bdc@2?symKey=abc", f.host.Sessions[0].URI)
	assert.Equal(t, "true", f.host.Sessions[0].Redirect)
	assert.Equal(t, "qr", f.host.Sessions[0].OriginID)

	// Without a URI the link only foregrounds the app.
	require.True(t, f.route(base+"/wc", types.RouteOptions{}))
	assert.Len(t, f.host.Sessions, 1)
	assert.Empty(t, f.host.Navigations)
}

func TestRoute_SessionFailureIsNotSurfaced(t *testing.T) {
	f := newFixture(t)
	f.host.SessionErr = errors.New("expired pairing")

	require.True(t, f.route("wc:8a5e5bdc@2?symKey=abc", types.RouteOptions{}))
	require.Len(t, f.host.Sessions, 1)
	assert.Equal(t, "wc:8a5e5bdc@2?symKey=abc", f.host.Sessions[0].URI)
	assert.Empty(t, f.host.Alerts)
}

func TestRoute_LoopBackRewrite(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.route(base+"/dapp/uniswap.org/swap", types.RouteOptions{}))
	require.Len(t, f.host.Navigations, 1)
	assert.Equal(t, types.ScreenBrowser, f.host.Navigations[0].Screen)
	assert.Equal(t, "https://uniswap.org/swap", f.host.Navigations[0].URL)

	require.True(t, f.route(base+"/send/"+recipient+"@1/transfer?address="+token+"&uint256=5", types.RouteOptions{}))
	require.Len(t, f.host.Navigations, 2)
	assert.Equal(t, types.ScreenSendToken, f.host.Navigations[1].Screen)
	assert.Equal(t, recipient, f.host.Navigations[1].Intent.TargetAddress)
}

func TestRoute_LegacyDappForms(t *testing.T) {
	for _, url := range []string{base + "/dapp/https://uniswap.org", base + "/dapp/http://uniswap.org"} {
		f := newFixture(t)
		require.True(t, f.route(url, types.RouteOptions{}))
		require.Len(t, f.host.Navigations, 1, url)
		assert.Equal(t, "https://uniswap.org", f.host.Navigations[0].URL)
	}
}

func TestRoute_CyclicRewriteIsBounded(t *testing.T) {
	f := newFixture(t)
	url := base + strings.Repeat("/dapp/metamask.app.link", 10)

	require.True(t, f.route(url, types.RouteOptions{}))
	require.Len(t, f.host.Alerts, 1)
	assert.Contains(t, f.host.Alerts[0].Message, "rewrites")
	assert.Empty(t, f.host.Navigations)
}

func TestRoute_UniversalRootIsIgnored(t *testing.T) {
	for _, url := range []string{
		base,
		base + "/",
		"https://metamask.app.link/skAH3BaF99",
		"https://metamask.test-app.link/skAH3BaF99",
	} {
		f := newFixture(t)
		require.True(t, f.route(url, types.RouteOptions{}), url)
		assert.Empty(t, f.host.Navigations, url)
		assert.Empty(t, f.host.Alerts, url)
		assert.Empty(t, f.host.Sessions, url)
	}
}

func TestRoute_UniversalUnknownActionStripsBase(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.route(base+"/app.uniswap.org/#/swap", types.RouteOptions{}))
	require.Len(t, f.host.Navigations, 1)
	assert.Equal(t, "https://app.uniswap.org/#/swap", f.host.Navigations[0].URL)
}

func TestRoute_BuyCrypto(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.route(base+"/buy-crypto", types.RouteOptions{}))
	require.True(t, f.route("metamask://buy-crypto", types.RouteOptions{}))

	require.Len(t, f.host.Navigations, 2)
	assert.Equal(t, types.ScreenBuyCrypto, f.host.Navigations[0].Screen)
	assert.Equal(t, types.ScreenBuyCrypto, f.host.Navigations[1].Screen)
}

func TestRoute_ForeignWebLinkOpensBrowser(t *testing.T) {
	f := newFixture(t)

	handled := f.router.Route(context.Background(), "https://example.com/page?x=1", types.RouteOptions{})
	require.True(t, handled)

	// Deferred until the interaction queue drains.
	assert.Empty(t, f.host.Navigations)
	assert.Equal(t, 1, f.sched.RunPending())
	require.Len(t, f.host.Navigations, 1)
	assert.Equal(t, "https://example.com/page?x=1", f.host.Navigations[0].URL)
}

func TestRoute_BrowserFallback(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.route("dapp://uniswap.org", types.RouteOptions{BrowserFallback: f.host.Fallback}))
	assert.Equal(t, []string{"https://uniswap.org"}, f.host.BrowserFallback)
	assert.Empty(t, f.host.Navigations)
}

func TestRoute_WalletScheme(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.route("metamask://connect?channelId=c1&pubkey=p1&comm=socket", types.RouteOptions{}))
	require.Len(t, f.host.Handshakes, 1)
	assert.Equal(t, "socket", f.host.Handshakes[0].Comm)
	assert.Equal(t, types.HandshakeContextUniversal, f.host.Handshakes[0].Context)

	require.True(t, f.route("metamask://bind", types.RouteOptions{}))
	assert.Equal(t, 1, f.host.Binds)

	require.True(t, f.route("metamask://wc?uri=wc%3Aaaa%402", types.RouteOptions{}))
	require.True(t, f.route("metamask://wc/bbb@2?symKey=k", types.RouteOptions{}))
	require.True(t, f.route("metamask://wcccc@2?symKey=k", types.RouteOptions{}))

	uris := []string{}
	for _, s := range f.host.Sessions {
		uris = append(uris, s.URI)
	}
	assert.ElementsMatch(t, []string{"wc:aaa@2", "wc:bbb@2?symKey=k", "wc:ccc@2?symKey=k"}, uris)
}

func TestRoute_PaymentErrorsBecomeAlerts(t *testing.T) {
	for _, amount := range []string{"12.5", "abc"} {
		f := newFixture(t)
		url := "ethereum:" + token + "/approve?address=" + recipient + "&uint256=" + amount

		require.True(t, f.route(url, types.RouteOptions{}))
		assert.Empty(t, f.host.Transactions, amount)
		assert.Empty(t, f.host.Navigations, amount)
		require.Len(t, f.host.Alerts, 1, amount)
		assert.Equal(t, types.AlertError, f.host.Alerts[0].Kind)
	}

	f := newFixture(t)
	require.True(t, f.route("ethereum:"+token+"/approve?address="+recipient+"&uint256=12", types.RouteOptions{}))
	assert.Len(t, f.host.Transactions, 1)
	assert.Empty(t, f.host.Alerts)
}

func TestRoute_MalformedQueryContinues(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.route(base+"/connect?channelId=%zz", types.RouteOptions{}))
	require.Len(t, f.host.Alerts, 1)
	assert.Equal(t, types.AlertInvalidLink, f.host.Alerts[0].Kind)
	// Params fell back to empty, so no handshake.
	assert.Empty(t, f.host.Handshakes)
}

func TestRoute_CountsOncePerCall(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.route(base+"/send/"+recipient+"@1?value=1", types.RouteOptions{}))

	assert.Equal(t, 1, f.metrics.Count("route", map[string]string{"scheme": "https"}))
	assert.Zero(t, f.metrics.Count("route", map[string]string{"scheme": "ethereum"}))
	require.Len(t, f.host.Navigations, 1)
	assert.Equal(t, types.ScreenSendNative, f.host.Navigations[0].Screen)
}
