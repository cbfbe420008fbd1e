// Package protocol holds the action tokens carried in universal-link paths and
// the static table that maps branded tokens back to canonical schemes.
package protocol

// ActionToken is the first path segment of a universal link, or the host of a
// wallet custom-scheme link.
type ActionToken int

const (
	ActionNone ActionToken = iota
	ActionBind
	ActionConnect
	ActionWalletConnect
	ActionDapp
	ActionSend
	ActionApprove
	ActionBuyCrypto
	ActionFocus
)

var actionNames = [...]string{
	ActionNone:          "",
	ActionBind:          "bind",
	ActionConnect:       "connect",
	ActionWalletConnect: "wc",
	ActionDapp:          "dapp",
	ActionSend:          "send",
	ActionApprove:       "approve",
	ActionBuyCrypto:     "buy-crypto",
	ActionFocus:         "focus",
}

func (a ActionToken) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return ""
	}
	return actionNames[a]
}

// ParseAction maps a path segment onto an ActionToken. Unknown segments map to
// ActionNone.
func ParseAction(segment string) ActionToken {
	if segment == "" {
		return ActionNone
	}
	for i, name := range actionNames {
		if name == segment {
			return ActionToken(i)
		}
	}
	return ActionNone
}

// Actions lists every token except ActionNone.
func Actions() []ActionToken {
	out := make([]ActionToken, 0, len(actionNames)-1)
	for i := 1; i < len(actionNames); i++ {
		out = append(out, ActionToken(i))
	}
	return out
}
