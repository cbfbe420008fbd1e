// Package network resolves requested chain ids and switches the active
// network before a payment request is acted on.
package network

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/vitwit/walletlink/types"
)

// Registry maps chain ids to known networks.
type Registry struct {
	byChainID map[string]types.NetworkInfo
}

// NewRegistry indexes networks by their decimal chain id. Duplicate chain ids
// are a configuration error.
func NewRegistry(networks []types.NetworkInfo) (*Registry, error) {
	r := &Registry{byChainID: make(map[string]types.NetworkInfo, len(networks))}
	for _, n := range networks {
		key, ok := canonicalChainID(n.ChainID)
		if !ok {
			return nil, &types.WalletLinkError{
				Code:    types.ErrConfigError,
				Message: fmt.Sprintf("invalid chain id %q for network %s", n.ChainID, n.Network),
			}
		}
		if _, dup := r.byChainID[key]; dup {
			return nil, &types.WalletLinkError{
				Code:    types.ErrConfigError,
				Message: fmt.Sprintf("duplicate chain id %s", key),
			}
		}
		n.ChainID = key
		r.byChainID[key] = n
	}
	return r, nil
}

// DefaultRegistry returns the registry of built-in networks.
func DefaultRegistry() *Registry {
	r, _ := NewRegistry(types.DefaultNetworks())
	return r
}

// Lookup resolves a chain id given in decimal or 0x-prefixed hex.
func (r *Registry) Lookup(chainID string) (types.NetworkInfo, bool) {
	key, ok := canonicalChainID(chainID)
	if !ok {
		return types.NetworkInfo{}, false
	}
	n, ok := r.byChainID[key]
	return n, ok
}

// Networks returns all entries ordered by numeric chain id.
func (r *Registry) Networks() []types.NetworkInfo {
	out := make([]types.NetworkInfo, 0, len(r.byChainID))
	for _, n := range r.byChainID {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := new(big.Int).SetString(out[i].ChainID, 10)
		b, _ := new(big.Int).SetString(out[j].ChainID, 10)
		return a.Cmp(b) < 0
	})
	return out
}

// canonicalChainID normalizes "0x1", "01" and "1" to "1".
func canonicalChainID(chainID string) (string, bool) {
	if chainID == "" {
		return "", false
	}
	var (
		id *big.Int
		ok bool
	)
	if strings.HasPrefix(chainID, "0x") || strings.HasPrefix(chainID, "0X") {
		id, ok = new(big.Int).SetString(chainID[2:], 16)
	} else {
		id, ok = new(big.Int).SetString(chainID, 10)
	}
	if !ok || id.Sign() <= 0 {
		return "", false
	}
	return id.String(), true
}
