package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseNetwork(t *testing.T) {
	cases := []struct {
		in      string
		want    Network
		wantErr bool
	}{
		{"mainnet", NetworkMainnet, false},
		{"", NetworkMainnet, false},
		{" Testnet ", NetworkTestnet, false},
		{"devnet", NetworkDevnet, false},
		{"localnet", "", true},
	}
	for _, tc := range cases {
		got, err := ParseNetwork(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseNetwork(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseNetwork(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseNetwork(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNetworkEndpointsDiffer(t *testing.T) {
	main := NetworkMainnet.Endpoints()
	test := NetworkTestnet.Endpoints()
	if main.ChainID == test.ChainID {
		t.Fatal("mainnet and testnet must not share a chain id")
	}
	if main.Explorer == "" || test.Explorer == "" {
		t.Fatal("explorer base must be set for every network")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	settings, err := Load(GlobalFlags{Retries: -1})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Network != NetworkMainnet {
		t.Fatalf("expected mainnet default, got %q", settings.Network)
	}
	if settings.Timeout != 10*time.Second {
		t.Fatalf("unexpected default timeout %v", settings.Timeout)
	}
	if !settings.CacheEnabled {
		t.Fatal("expected cache enabled by default")
	}
	if settings.WalletPath == "" {
		t.Fatal("expected a default wallet path")
	}
	if settings.Endpoints.ChainID != "injective-1" {
		t.Fatalf("unexpected chain id %q", settings.Endpoints.ChainID)
	}
}

func TestLoadFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfgDir := filepath.Join(dir, "injagent")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := "network: testnet\ntimeout: 5s\ncache:\n  enabled: false\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(GlobalFlags{Retries: -1})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Network != NetworkTestnet {
		t.Fatalf("expected network from file, got %q", settings.Network)
	}
	if settings.Timeout != 5*time.Second {
		t.Fatalf("expected timeout from file, got %v", settings.Timeout)
	}
	if settings.CacheEnabled {
		t.Fatal("expected cache disabled by file")
	}

	// Flags win over the file.
	settings, err = Load(GlobalFlags{Network: "devnet", Timeout: "3s", Retries: 0})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Network != NetworkDevnet {
		t.Fatalf("expected network from flag, got %q", settings.Network)
	}
	if settings.Timeout != 3*time.Second {
		t.Fatalf("expected timeout from flag, got %v", settings.Timeout)
	}
	if settings.Retries != 0 {
		t.Fatalf("expected retries from flag, got %d", settings.Retries)
	}
}

func TestLoadEnableTools(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	settings, err := Load(GlobalFlags{EnableTools: "get-wallet-address, search-tokens", Retries: -1})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(settings.EnableTools) != 2 {
		t.Fatalf("expected 2 enabled tools, got %v", settings.EnableTools)
	}
}
