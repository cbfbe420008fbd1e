package network

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/walletlink/internal/testutil"
	"github.com/vitwit/walletlink/types"
)

func newGuard(host *testutil.Host) *Guard {
	return NewGuard(DefaultRegistry(), host, host, types.DefaultConfig(), nil, nil)
}

func TestGuard_SameNetworkIsNoop(t *testing.T) {
	host := testutil.NewHost()
	g := newGuard(host)

	require.NoError(t, g.Ensure(context.Background(), "1"))
	require.NoError(t, g.Ensure(context.Background(), "0x1"))

	assert.Empty(t, host.Switches)
	assert.Empty(t, host.Warnings)
}

func TestGuard_SwitchesAndWarnsOnce(t *testing.T) {
	host := testutil.NewHost()
	g := newGuard(host)

	require.NoError(t, g.Ensure(context.Background(), "137"))

	require.Len(t, host.Switches, 1)
	assert.Equal(t, types.NetworkPolygon, host.Switches[0].Network)
	require.Len(t, host.Warnings, 1)
	assert.Contains(t, host.Warnings[0].Message, "Polygon Mainnet")
	assert.Equal(t, 5*time.Second, host.Warnings[0].Duration)
	assert.True(t, host.Warnings[0].Dismissable)

	// Now active; a second request does nothing.
	require.NoError(t, g.Ensure(context.Background(), "137"))
	assert.Len(t, host.Switches, 1)
	assert.Len(t, host.Warnings, 1)
}

func TestGuard_UnknownChain(t *testing.T) {
	host := testutil.NewHost()
	err := newGuard(host).Ensure(context.Background(), "424242")

	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrMissingNetworkID))
	assert.Empty(t, host.Switches)
	assert.Empty(t, host.Warnings)
}

func TestGuard_SwitchFailure(t *testing.T) {
	host := testutil.NewHost()
	host.SwitchErr = errors.New("provider offline")

	err := newGuard(host).Ensure(context.Background(), "8453")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrNetworkNotFound))
	assert.Empty(t, host.Warnings)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	n, ok := r.Lookup("0x2105")
	require.True(t, ok)
	assert.Equal(t, types.NetworkBase, n.Network)

	_, ok = r.Lookup("abc")
	assert.False(t, ok)
	_, ok = r.Lookup("")
	assert.False(t, ok)

	nets := r.Networks()
	require.NotEmpty(t, nets)
	assert.Equal(t, "1", nets[0].ChainID)

	_, err := NewRegistry([]types.NetworkInfo{
		{ChainID: "1", Name: "a", Network: "a"},
		{ChainID: "0x1", Name: "b", Network: "b"},
	})
	assert.True(t, types.IsCode(err, types.ErrConfigError))
}
