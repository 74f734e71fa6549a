package app

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	agerr "github.com/injkit/injagent/internal/errors"
	"github.com/injkit/injagent/internal/version"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	runner := NewRunnerWithWriters(&stdout, &stderr)
	code := runner.Run(args)
	return code, stdout.String(), stderr.String()
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, version.CLIVersion) {
		t.Fatalf("expected version in %q", stdout)
	}
}

func TestToolsSchemaListsEveryTool(t *testing.T) {
	code, stdout, _ := runCLI(t, "tools")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, name := range []string{
		"get-wallet-address", "create-wallet", "check-wallet-balance",
		"search-tokens", "search-spot-markets", "search-derivative-markets",
		"send-funds", "trade-spot-market",
	} {
		if !strings.Contains(stdout, name) {
			t.Fatalf("schema output missing %s", name)
		}
	}
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	code, _, stderr := runCLI(t, "no-such-command")
	if code != int(agerr.CodeUsage) {
		t.Fatalf("expected usage exit code, got %d (%s)", code, stderr)
	}
}

func TestPolicyBlocksDisallowedTool(t *testing.T) {
	walletPath := filepath.Join(t.TempDir(), "wallet.json")
	code, _, stderr := runCLI(t,
		"get-wallet-address",
		"--enable-tools", "create-wallet",
		"--wallet-path", walletPath,
		"--no-cache",
	)
	if code != int(agerr.CodeBlocked) {
		t.Fatalf("expected blocked exit code, got %d (%s)", code, stderr)
	}
}

func TestCreateWalletAndReadItBack(t *testing.T) {
	walletPath := filepath.Join(t.TempDir(), "wallet.json")

	code, stdout, stderr := runCLI(t, "create-wallet", "--wallet-path", walletPath, "--no-cache")
	if code != 0 {
		t.Fatalf("create-wallet failed: %d (%s)", code, stderr)
	}
	if !strings.Contains(stdout, "inj1") {
		t.Fatalf("expected an address in %q", stdout)
	}

	code, stdout, stderr = runCLI(t, "get-wallet-address", "--wallet-path", walletPath, "--no-cache")
	if code != 0 {
		t.Fatalf("get-wallet-address failed: %d (%s)", code, stderr)
	}
	if !strings.Contains(stdout, "Injective Address: inj1") {
		t.Fatalf("expected the stored address in %q", stdout)
	}
}

func TestGetWalletAddressWithoutWallet(t *testing.T) {
	walletPath := filepath.Join(t.TempDir(), "wallet.json")
	code, _, _ := runCLI(t, "get-wallet-address", "--wallet-path", walletPath, "--no-cache")
	if code != int(agerr.CodeNoWallet) {
		t.Fatalf("expected no-wallet exit code, got %d", code)
	}
}

func TestCreateWalletTwiceWithoutOverride(t *testing.T) {
	walletPath := filepath.Join(t.TempDir(), "wallet.json")

	if code, _, stderr := runCLI(t, "create-wallet", "--wallet-path", walletPath, "--no-cache"); code != 0 {
		t.Fatalf("first create failed: %d (%s)", code, stderr)
	}
	code, _, stderr := runCLI(t, "create-wallet", "--wallet-path", walletPath, "--no-cache")
	if code != int(agerr.CodeWalletExists) {
		t.Fatalf("expected wallet-exists exit code, got %d (%s)", code, stderr)
	}
}
