// Package ethuri decodes EIP-681 payment URIs and turns them into send-flow
// navigations or ERC-20 approve transactions.
package ethuri

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/vitwit/walletlink/types"
	"github.com/vitwit/walletlink/utils"
)

var (
	chainIDPattern = regexp.MustCompile(`^[0-9]+$`)
	hexAddrPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	ensNamePattern = regexp.MustCompile(`^[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)+$`)
)

// numericParams are normalized to plain integers when written in scientific
// notation.
var numericParams = []string{types.ParamValue, "gas", "gasLimit", "gasPrice"}

// Parse decodes
//
//	scheme:[pay-]<target>[@<chain_id>][/<function>][?key=value&...]
//
// into a PaymentIntent. Unknown function names become FunctionNone.
func Parse(raw string) (*types.PaymentIntent, error) {
	scheme, ok := utils.SchemeOf(raw)
	if !ok {
		return nil, malformed(raw, "missing scheme")
	}
	rest := strings.TrimPrefix(raw[len(scheme)+1:], "pay-")

	var rawQuery string
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest, rawQuery = rest[:i], rest[i+1:]
	}

	var function string
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest, function = rest[:i], rest[i+1:]
	}

	target, chainID := rest, ""
	if i := strings.IndexByte(rest, '@'); i >= 0 {
		target, chainID = rest[:i], rest[i+1:]
		if !chainIDPattern.MatchString(chainID) {
			return nil, malformed(raw, fmt.Sprintf("invalid chain id %q", chainID))
		}
	}

	if !hexAddrPattern.MatchString(target) && !ensNamePattern.MatchString(target) {
		return nil, malformed(raw, fmt.Sprintf("invalid target address %q", target))
	}

	params, err := parseParams(rawQuery)
	if err != nil {
		return nil, malformed(raw, err.Error())
	}

	return &types.PaymentIntent{
		TargetAddress: target,
		ChainID:       chainID,
		FunctionName:  types.ParseFunctionName(function),
		Parameters:    params,
		Raw:           raw,
	}, nil
}

func parseParams(rawQuery string) (map[string]string, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	params := make(map[string]string, len(values))
	for k := range values {
		params[k] = values.Get(k)
	}

	for _, k := range numericParams {
		v, ok := params[k]
		if !ok {
			continue
		}
		dec, err := utils.ParseNumber(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", k, err)
		}
		if dec.IsInteger() {
			params[k] = dec.BigInt().String()
		}
	}
	return params, nil
}

func malformed(raw, reason string) error {
	return &types.WalletLinkError{
		Code:    types.ErrMalformedInput,
		Message: "invalid payment uri: " + reason,
		Data:    raw,
	}
}
