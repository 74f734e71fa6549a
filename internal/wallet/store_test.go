package wallet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	agerr "github.com/injkit/injagent/internal/errors"
)

func walletPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "wallet.json")
}

func TestCreateAndReload(t *testing.T) {
	path := walletPath(t)

	store := NewStore(path)
	if store.State() != StateAbsent {
		t.Fatalf("expected absent state before create, got %d", store.State())
	}

	created, err := store.Create(false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(created.Address, "inj1") {
		t.Fatalf("address %q lacks inj prefix", created.Address)
	}
	if store.State() != StateCreated {
		t.Fatalf("expected created state, got %d", store.State())
	}

	// A fresh store loads the persisted wallet lazily.
	reloaded := NewStore(path)
	address, ok := reloaded.Address()
	if !ok {
		t.Fatal("expected persisted wallet to load")
	}
	if address != created.Address {
		t.Fatalf("reloaded address %q, want %q", address, created.Address)
	}
	if reloaded.State() != StateLoaded {
		t.Fatalf("expected loaded state, got %d", reloaded.State())
	}

	secret, ok := reloaded.SecretKey()
	if !ok || len(secret) != 32 {
		t.Fatalf("expected 32-byte secret key, got %d bytes (ok=%v)", len(secret), ok)
	}
}

func TestCreateWithoutOverwriteKeepsFirstWallet(t *testing.T) {
	path := walletPath(t)
	store := NewStore(path)

	first, err := store.Create(false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = store.Create(false)
	if !agerr.Is(err, agerr.CodeWalletExists) {
		t.Fatalf("expected CodeWalletExists, got %v", err)
	}

	address, ok := store.Address()
	if !ok || address != first.Address {
		t.Fatalf("first wallet must be unchanged, got %q want %q", address, first.Address)
	}

	// The refusal must also hold for a separate process-like store.
	other := NewStore(path)
	if _, err := other.Create(false); !agerr.Is(err, agerr.CodeWalletExists) {
		t.Fatalf("expected CodeWalletExists from fresh store, got %v", err)
	}
}

func TestCreateWithOverwriteReplacesWallet(t *testing.T) {
	path := walletPath(t)
	store := NewStore(path)

	first, err := store.Create(false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := store.Create(true)
	if err != nil {
		t.Fatalf("Create with overwrite: %v", err)
	}
	if second.Address == first.Address {
		t.Fatal("overwrite must generate a new keypair")
	}

	reloaded := NewStore(path)
	address, _ := reloaded.Address()
	if address != second.Address {
		t.Fatalf("persisted wallet %q, want %q", address, second.Address)
	}
}

func TestCorruptFileIsTreatedAsAbsent(t *testing.T) {
	path := walletPath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path)
	if _, ok := store.Address(); ok {
		t.Fatal("corrupt file must read as absent")
	}
	if store.State() != StateAbsent {
		t.Fatalf("expected absent state, got %d", store.State())
	}
}

func TestMissingFileIsAbsentNotFatal(t *testing.T) {
	store := NewStore(walletPath(t))
	if _, ok := store.SecretKey(); ok {
		t.Fatal("missing file must read as absent")
	}
}

func TestWalletFilePermissions(t *testing.T) {
	path := walletPath(t)
	if _, err := NewStore(path).Create(false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat wallet file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("wallet file mode %o, want 600", perm)
	}
}
