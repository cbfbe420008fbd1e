package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/walletlink/types"
)

const base = "https://metamask.app.link"

func TestParseAction(t *testing.T) {
	for _, a := range Actions() {
		assert.Equal(t, a, ParseAction(a.String()))
	}
	assert.Equal(t, ActionNone, ParseAction(""))
	assert.Equal(t, ActionNone, ParseAction("swap"))
	assert.Equal(t, "", ActionToken(99).String())
}

func TestTable_Rewrite(t *testing.T) {
	table := DefaultTable()

	cases := []struct {
		name   string
		href   string
		action ActionToken
		want   string
		ok     bool
	}{
		{"dapp", base + "/dapp/uniswap.org/swap", ActionDapp, "https://uniswap.org/swap", true},
		{"send", base + "/send/0xabc@1?value=1e18", ActionSend, "ethereum:0xabc@1?value=1e18", true},
		{"approve", base + "/approve/0xabc/approve?uint256=5", ActionApprove, "ethereum:0xabc/approve?uint256=5", true},
		{"no slash", base + "/send", ActionSend, "ethereum:", true},
		{"not in table", base + "/connect?channelId=1", ActionConnect, base + "/connect?channelId=1", false},
		{"other base", "https://example.com/send/0xabc", ActionSend, "https://example.com/send/0xabc", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := table.Rewrite(tc.href, base, tc.action)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewTable_Rejects(t *testing.T) {
	_, err := NewTable(map[string]string{"swap": "https://"}, base)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfigError))

	_, err = NewTable(map[string]string{"dapp": base + "/dapp/"}, base)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCyclicProtocolTable))

	_, err = NewTable(map[string]string{"send": ""}, base)
	assert.True(t, types.IsCode(err, types.ErrConfigError))
}

func TestTable_Entries(t *testing.T) {
	entries := DefaultTable().Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, ActionDapp, entries[0].Action)
	assert.Equal(t, ActionSend, entries[1].Action)
	assert.Equal(t, ActionApprove, entries[2].Action)
}
