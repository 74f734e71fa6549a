package policy

import (
	"testing"

	agerr "github.com/injkit/injagent/internal/errors"
)

func TestEmptyAllowlistAllowsEverything(t *testing.T) {
	if err := CheckToolAllowed(nil, "send-funds"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestAllowlistBlocksUnlistedTool(t *testing.T) {
	err := CheckToolAllowed([]string{"get-wallet-address", "search-tokens"}, "send-funds")
	if err == nil {
		t.Fatal("expected blocked error")
	}
	if !agerr.Is(err, agerr.CodeBlocked) {
		t.Fatalf("expected CodeBlocked, got %v", err)
	}
}

func TestAllowlistIsCaseInsensitive(t *testing.T) {
	if err := CheckToolAllowed([]string{" Send-Funds "}, "send-funds"); err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}
}
