// Package wallet owns the lifecycle of the single local keypair backing all
// signed operations.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gofrs/flock"

	"github.com/injkit/injagent/internal/chain"
	agerr "github.com/injkit/injagent/internal/errors"
)

// State tracks what the store knows about the persisted wallet.
type State int

const (
	StateUninitialized State = iota
	StateAbsent
	StateLoaded
	StateCreated
)

// Wallet is the in-memory keypair. The secret key never appears in logs or
// rendered output.
type Wallet struct {
	Address string
	key     *ecdsa.PrivateKey
}

// SecretKey returns the raw secp256k1 secret key bytes.
func (w *Wallet) SecretKey() []byte {
	return ethcrypto.FromECDSA(w.key)
}

// walletFile is the on-disk JSON shape.
type walletFile struct {
	InjectiveAddress string `json:"injectiveAddress"`
	PrivateKey       string `json:"privateKey"`
}

// Store persists one wallet at a fixed path. An unreadable or corrupt file
// is treated as absent; once resolved, the result is cached for the process
// lifetime.
type Store struct {
	path string
	lock *flock.Flock

	mu     sync.Mutex
	state  State
	wallet *Wallet
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Create generates a new keypair, derives its address, and persists both.
// It refuses to replace an existing wallet unless overwrite is set, and
// fails loudly when the write does not succeed.
func (s *Store) Create(overwrite bool) (*Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked()
	if s.wallet != nil && !overwrite {
		return nil, agerr.New(agerr.CodeWalletExists,
			fmt.Sprintf("wallet already exists (address %s), pass overwrite to replace it", s.wallet.Address))
	}

	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, agerr.Wrap(agerr.CodeInternal, "generate keypair", err)
	}
	address, err := chain.AddressFromPubKey(&key.PublicKey)
	if err != nil {
		return nil, agerr.Wrap(agerr.CodeInternal, "derive address", err)
	}

	if err := s.write(walletFile{
		InjectiveAddress: address,
		PrivateKey:       hex.EncodeToString(ethcrypto.FromECDSA(key)),
	}); err != nil {
		return nil, err
	}

	s.wallet = &Wallet{Address: address, key: key}
	s.state = StateCreated
	return s.wallet, nil
}

// Address returns the wallet address, lazily loading the persisted wallet
// on first use.
func (s *Store) Address() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	if s.wallet == nil {
		return "", false
	}
	return s.wallet.Address, true
}

// SecretKey returns the raw secret key bytes under the same lazy-load
// contract as Address.
func (s *Store) SecretKey() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	if s.wallet == nil {
		return nil, false
	}
	return s.wallet.SecretKey(), true
}

// State reports the resolved store state, loading first if needed.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return s.state
}

func (s *Store) loadLocked() {
	if s.state != StateUninitialized {
		return
	}

	buf, err := os.ReadFile(s.path)
	if err != nil {
		s.state = StateAbsent
		return
	}
	var file walletFile
	if err := json.Unmarshal(buf, &file); err != nil {
		s.state = StateAbsent
		return
	}
	secret, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(file.PrivateKey), "0x"))
	if err != nil {
		s.state = StateAbsent
		return
	}
	key, err := ethcrypto.ToECDSA(secret)
	if err != nil {
		s.state = StateAbsent
		return
	}
	// The address is always re-derived from the key so a hand-edited
	// address field cannot desynchronize signing.
	address, err := chain.AddressFromPubKey(&key.PublicKey)
	if err != nil {
		s.state = StateAbsent
		return
	}

	s.wallet = &Wallet{Address: address, key: key}
	s.state = StateLoaded
}

func (s *Store) write(file walletFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return agerr.Wrap(agerr.CodeInternal, "create wallet directory", err)
	}

	locked, err := s.lock.TryLockContext(context.Background(), 5*time.Second)
	if err != nil {
		return agerr.Wrap(agerr.CodeInternal, "lock wallet file", err)
	}
	if !locked {
		return agerr.New(agerr.CodeInternal, "lock wallet file: timeout acquiring lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	buf, err := json.Marshal(file)
	if err != nil {
		return agerr.Wrap(agerr.CodeInternal, "encode wallet", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o600); err != nil {
		return agerr.Wrap(agerr.CodeInternal, "write wallet file", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return agerr.Wrap(agerr.CodeInternal, "replace wallet file", err)
	}
	return nil
}
