package chain

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Bech32Prefix is the account prefix for chain addresses.
const Bech32Prefix = "inj"

// AddressFromPubKey derives the bech32 account address from a secp256k1
// public key (keccak-160 of the uncompressed key, eth style).
func AddressFromPubKey(pub *ecdsa.PublicKey) (string, error) {
	raw := ethcrypto.PubkeyToAddress(*pub)
	return EncodeAddress(raw.Bytes())
}

// AddressFromSecretKey derives the bech32 account address from raw
// secp256k1 secret key bytes.
func AddressFromSecretKey(secret []byte) (string, error) {
	key, err := ethcrypto.ToECDSA(secret)
	if err != nil {
		return "", fmt.Errorf("parse secret key: %w", err)
	}
	return AddressFromPubKey(&key.PublicKey)
}

// EncodeAddress bech32-encodes a 20-byte account address.
func EncodeAddress(raw []byte) (string, error) {
	if len(raw) != 20 {
		return "", fmt.Errorf("address must be 20 bytes, got %d", len(raw))
	}
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert address bits: %w", err)
	}
	addr, err := bech32.Encode(Bech32Prefix, conv)
	if err != nil {
		return "", fmt.Errorf("encode bech32 address: %w", err)
	}
	return addr, nil
}

// DecodeAddress returns the 20 raw address bytes behind a bech32 address.
func DecodeAddress(address string) ([]byte, error) {
	hrp, data, err := bech32.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("decode bech32 address: %w", err)
	}
	if hrp != Bech32Prefix {
		return nil, fmt.Errorf("address prefix %q, expected %q", hrp, Bech32Prefix)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("convert address bits: %w", err)
	}
	if len(raw) != 20 {
		return nil, fmt.Errorf("address payload must be 20 bytes, got %d", len(raw))
	}
	return raw, nil
}

// DefaultSubaccountID is the zero trading sub-ledger of an address: the
// 20 address bytes followed by a 12-byte zero nonce, hex encoded.
func DefaultSubaccountID(address string) (string, error) {
	raw, err := DecodeAddress(address)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(raw) + strings.Repeat("0", 24), nil
}
