package protocol

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vitwit/walletlink/types"
)

// Table maps branded action tokens to canonical scheme prefixes. It is built
// once and never modified.
type Table struct {
	entries map[ActionToken]string
}

// Entry is a single row of the table.
type Entry struct {
	Action ActionToken
	Prefix string
}

// DefaultTable returns the built-in loop-back table.
func DefaultTable() *Table {
	t, _ := NewTable(types.DefaultConfig().ProtocolTable, types.DefaultConfig().UniversalBase())
	return t
}

// NewTable builds a table from token -> prefix pairs. Unknown tokens and
// prefixes that point back at the universal link base are rejected.
func NewTable(raw map[string]string, universalBase string) (*Table, error) {
	entries := make(map[ActionToken]string, len(raw))
	for token, prefix := range raw {
		action := ParseAction(token)
		if action == ActionNone {
			return nil, &types.WalletLinkError{
				Code:    types.ErrConfigError,
				Message: fmt.Sprintf("unknown action token in protocol table: %q", token),
			}
		}
		if prefix == "" {
			return nil, &types.WalletLinkError{
				Code:    types.ErrConfigError,
				Message: fmt.Sprintf("empty prefix for action %q", token),
			}
		}
		if universalBase != "" && strings.HasPrefix(prefix, universalBase) {
			return nil, &types.WalletLinkError{
				Code:    types.ErrCyclicProtocolTable,
				Message: fmt.Sprintf("action %q rewrites to the universal link base", token),
			}
		}
		entries[action] = prefix
	}
	return &Table{entries: entries}, nil
}

// Lookup returns the canonical prefix for an action.
func (t *Table) Lookup(action ActionToken) (string, bool) {
	p, ok := t.entries[action]
	return p, ok
}

// Rewrite replaces "<base>/<action>/" (or "<base>/<action>") at the start of
// href with the action's canonical prefix.
func (t *Table) Rewrite(href, base string, action ActionToken) (string, bool) {
	prefix, ok := t.Lookup(action)
	if !ok {
		return href, false
	}

	branded := strings.TrimSuffix(base, "/") + "/" + action.String()
	switch {
	case strings.HasPrefix(href, branded+"/"):
		return prefix + strings.TrimPrefix(href, branded+"/"), true
	case strings.HasPrefix(href, branded):
		return prefix + strings.TrimPrefix(href, branded), true
	default:
		return href, false
	}
}

// Entries returns the table rows ordered by action.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for a, p := range t.entries {
		out = append(out, Entry{Action: a, Prefix: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Action < out[j].Action })
	return out
}
