// Package broadcaster signs assembled messages and submits them as one
// transaction, waiting for on-chain inclusion.
package broadcaster

import (
	"context"
	"errors"
	"sync"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/injkit/injagent/internal/chain"
	agerr "github.com/injkit/injagent/internal/errors"
)

// AccountInfo is the signing state of a chain account.
type AccountInfo struct {
	Number   uint64
	Sequence uint64
}

// ChainClient provides the wire encoding and node access the broadcaster
// depends on. Implementations own the tx codec.
type ChainClient interface {
	// Account fetches the account number and sequence for an address.
	Account(ctx context.Context, address string) (AccountInfo, error)
	// SignDoc produces the canonical bytes to be hashed and signed.
	SignDoc(msgs []chain.Msg, acc AccountInfo) ([]byte, error)
	// EncodeTx wraps the signed doc into the broadcastable envelope.
	EncodeTx(doc, pubKey, signature []byte) ([]byte, error)
	// BroadcastTxSync submits the transaction and returns its hash.
	BroadcastTxSync(ctx context.Context, txBytes []byte) (string, error)
	// TxConfirmed reports whether the transaction has been included.
	TxConfirmed(ctx context.Context, txHash string) (bool, error)
}

// Result is returned once per successful broadcast.
type Result struct {
	TxHash string
}

// Broadcaster serializes broadcasts per source address so that concurrent
// calls sharing a wallet cannot race on the account sequence number.
type Broadcaster struct {
	client  ChainClient
	timeout time.Duration
	poll    time.Duration
	log     *zap.Logger

	mu       sync.Mutex
	inflight map[string]*sync.Mutex
}

func New(client ChainClient, timeout, poll time.Duration, log *zap.Logger) *Broadcaster {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if poll <= 0 {
		poll = 2 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{
		client:   client,
		timeout:  timeout,
		poll:     poll,
		log:      log,
		inflight: make(map[string]*sync.Mutex),
	}
}

// Broadcast signs msgs with secretKey, submits them atomically in one
// transaction, and waits for confirmation. One network round trip per call
// for the submission itself; confirmation is polled.
func (b *Broadcaster) Broadcast(ctx context.Context, msgs []chain.Msg, secretKey []byte) (Result, error) {
	if len(msgs) == 0 {
		return Result{}, agerr.New(agerr.CodeUsage, "broadcast requires at least one message")
	}

	key, err := ethcrypto.ToECDSA(secretKey)
	if err != nil {
		return Result{}, agerr.Wrap(agerr.CodeBroadcast, "parse secret key", err)
	}
	address, err := chain.AddressFromPubKey(&key.PublicKey)
	if err != nil {
		return Result{}, agerr.Wrap(agerr.CodeBroadcast, "derive signer address", err)
	}

	lock := b.addressLock(address)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	acc, err := b.client.Account(ctx, address)
	if err != nil {
		return Result{}, agerr.Wrap(agerr.CodeBroadcast, "fetch account state", err)
	}

	doc, err := b.client.SignDoc(msgs, acc)
	if err != nil {
		return Result{}, agerr.Wrap(agerr.CodeBroadcast, "build sign doc", err)
	}
	signature, err := ethcrypto.Sign(ethcrypto.Keccak256(doc), key)
	if err != nil {
		return Result{}, agerr.Wrap(agerr.CodeBroadcast, "sign transaction", err)
	}
	txBytes, err := b.client.EncodeTx(doc, ethcrypto.CompressPubkey(&key.PublicKey), signature)
	if err != nil {
		return Result{}, agerr.Wrap(agerr.CodeBroadcast, "encode transaction", err)
	}

	txHash, err := b.client.BroadcastTxSync(ctx, txBytes)
	if err != nil {
		return Result{}, agerr.Wrap(agerr.CodeBroadcast, "submit transaction", err)
	}
	b.log.Info("transaction submitted",
		zap.String("address", address),
		zap.String("tx_hash", txHash),
		zap.Int("msgs", len(msgs)),
		zap.Uint64("sequence", acc.Sequence),
	)

	if err := b.waitForInclusion(ctx, txHash); err != nil {
		return Result{}, err
	}
	return Result{TxHash: txHash}, nil
}

func (b *Broadcaster) waitForInclusion(ctx context.Context, txHash string) error {
	ticker := time.NewTicker(b.poll)
	defer ticker.Stop()

	for {
		confirmed, err := b.client.TxConfirmed(ctx, txHash)
		if err != nil {
			return agerr.Wrap(agerr.CodeBroadcast, "query transaction", err)
		}
		if confirmed {
			return nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return agerr.New(agerr.CodeBroadcast, "timed out waiting for transaction confirmation")
			}
			return agerr.Wrap(agerr.CodeBroadcast, "broadcast cancelled", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (b *Broadcaster) addressLock(address string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	lock, ok := b.inflight[address]
	if !ok {
		lock = &sync.Mutex{}
		b.inflight[address] = lock
	}
	return lock
}
