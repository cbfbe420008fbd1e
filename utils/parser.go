package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vitwit/walletlink/types"
)

// NormalizeLegacyDapp rewrites the two historical malformed forms
// "<base>/dapp/https://..." and "<base>/dapp/http://..." to "<base>/dapp/...".
func NormalizeLegacyDapp(raw, universalBase string) string {
	branded := strings.TrimSuffix(universalBase, "/") + "/dapp/"
	for _, bad := range []string{branded + "https://", branded + "http://"} {
		if strings.HasPrefix(raw, bad) {
			return branded + strings.TrimPrefix(raw, bad)
		}
	}
	return raw
}

// SchemeOf returns the case-sensitive token before the first ':'.
func SchemeOf(raw string) (types.Scheme, bool) {
	i := strings.IndexByte(raw, ':')
	if i <= 0 {
		return "", false
	}
	return types.Scheme(raw[:i]), true
}

// ParseDeeplink splits a raw URL into scheme, host, path and query. It is
// lenient: URLs the standard parser rejects are split by hand so that the
// scheme and query remain available.
func ParseDeeplink(raw string) (*types.DeeplinkURL, error) {
	raw = strings.TrimSpace(raw)
	scheme, ok := SchemeOf(raw)
	if !ok {
		return nil, &types.WalletLinkError{
			Code:    types.ErrMalformedInput,
			Message: fmt.Sprintf("missing scheme in %q", raw),
		}
	}

	link := &types.DeeplinkURL{
		Raw:    raw,
		Scheme: scheme,
		Href:   raw,
	}

	u, err := url.Parse(raw)
	if err != nil {
		rest := raw[len(scheme)+1:]
		if i := strings.IndexByte(rest, '?'); i >= 0 {
			link.RawQuery = rest[i+1:]
			rest = rest[:i]
		}
		rest = strings.TrimPrefix(rest, "//")
		parts := strings.Split(rest, "/")
		link.Host = parts[0]
		link.PathSegments = nonEmpty(parts[1:])
		return link, nil
	}

	link.Host = u.Host
	link.RawQuery = u.RawQuery
	if u.Opaque != "" {
		link.PathSegments = nonEmpty(strings.Split(u.Opaque, "/"))
	} else {
		link.PathSegments = nonEmpty(strings.Split(u.Path, "/"))
	}
	return link, nil
}

// DecodeQuery extracts the pairing parameters from a raw query string. On a
// malformed query it returns empty params together with a MALFORMED_INPUT
// error; callers are expected to continue with the empty set.
func DecodeQuery(rawQuery string) (types.PairingParams, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return types.PairingParams{}, &types.WalletLinkError{
			Code:    types.ErrMalformedInput,
			Message: "failed to decode query string",
			Err:     err,
		}
	}

	return types.PairingParams{
		URI:       values.Get("uri"),
		Redirect:  values.Get("redirect"),
		ChannelID: values.Get("channelId"),
		Comm:      values.Get("comm"),
		PubKey:    values.Get("pubkey"),
	}, nil
}

func nonEmpty(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
