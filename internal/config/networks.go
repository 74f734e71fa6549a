package config

import (
	"fmt"
	"strings"
)

// Network selects which chain deployment the agent talks to.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkDevnet  Network = "devnet"
)

// Endpoints is the static endpoint set for one network. The catalog base
// serves versioned JSON snapshots of tokens and markets.
type Endpoints struct {
	ChainID    string
	EthChainID int64
	RPC        string
	REST       string
	Indexer    string
	Catalog    string
	Explorer   string
}

var networkEndpoints = map[Network]Endpoints{
	NetworkMainnet: {
		ChainID:    "injective-1",
		EthChainID: 1,
		RPC:        "https://sentry.tm.injective.network",
		REST:       "https://sentry.lcd.injective.network",
		Indexer:    "https://sentry.exchange.grpc-web.injective.network",
		Catalog:    "https://d36789lqgasyke.cloudfront.net",
		Explorer:   "https://www.injscan.com/transaction/",
	},
	NetworkTestnet: {
		ChainID:    "injective-888",
		EthChainID: 11155111,
		RPC:        "https://testnet.sentry.tm.injective.network",
		REST:       "https://testnet.sentry.lcd.injective.network",
		Indexer:    "https://testnet.sentry.exchange.grpc-web.injective.network",
		Catalog:    "https://d36789lqgasyke.cloudfront.net",
		Explorer:   "https://testnet.explorer.injective.network/transaction/",
	},
	NetworkDevnet: {
		ChainID:    "injective-777",
		EthChainID: 11155111,
		RPC:        "https://devnet.tm.injective.dev",
		REST:       "https://devnet.lcd.injective.dev",
		Indexer:    "https://devnet.exchange.grpc-web.injective.dev",
		Catalog:    "https://d36789lqgasyke.cloudfront.net",
		Explorer:   "https://testnet.explorer.injective.network/transaction/",
	},
}

func ParseNetwork(v string) (Network, error) {
	switch Network(strings.ToLower(strings.TrimSpace(v))) {
	case NetworkMainnet, "":
		return NetworkMainnet, nil
	case NetworkTestnet:
		return NetworkTestnet, nil
	case NetworkDevnet:
		return NetworkDevnet, nil
	}
	return "", fmt.Errorf("unknown network %q (expected mainnet|testnet|devnet)", v)
}

func (n Network) Endpoints() Endpoints {
	ep, ok := networkEndpoints[n]
	if !ok {
		return networkEndpoints[NetworkMainnet]
	}
	return ep
}
