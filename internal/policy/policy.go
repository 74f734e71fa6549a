package policy

import (
	"strings"

	agerr "github.com/injkit/injagent/internal/errors"
)

// CheckToolAllowed enforces the optional tool allow-list. An empty list
// allows everything.
func CheckToolAllowed(allowlist []string, tool string) error {
	if len(allowlist) == 0 {
		return nil
	}
	norm := normalize(tool)
	for _, allowed := range allowlist {
		if normalize(allowed) == norm {
			return nil
		}
	}
	return agerr.New(agerr.CodeBlocked, "tool blocked by --enable-tools policy")
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
