// Package tools implements the agent-facing tool surface. Every handler
// recovers typed errors into a user-visible text payload; nothing here
// panics or crashes the process.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/injkit/injagent/internal/catalog"
	"github.com/injkit/injagent/internal/chain"
	"github.com/injkit/injagent/internal/chain/broadcaster"
	agerr "github.com/injkit/injagent/internal/errors"
	"github.com/injkit/injagent/internal/explorer"
	"github.com/injkit/injagent/internal/portfolio"
	"github.com/injkit/injagent/internal/wallet"
)

// Result is one tool invocation outcome rendered as text. Err keeps the
// typed error for exit-code mapping; Text is what the dispatch layer shows.
type Result struct {
	Text    string
	IsError bool
	Err     error
}

func ok(text string) Result { return Result{Text: text} }
func fail(err error) Result { return Result{Text: err.Error(), IsError: true, Err: err} }

func failText(code agerr.Code, text string) Result {
	return Result{Text: text, IsError: true, Err: agerr.New(code, text)}
}

// Broadcaster is the signing/submission dependency.
type Broadcaster interface {
	Broadcast(ctx context.Context, msgs []chain.Msg, secretKey []byte) (broadcaster.Result, error)
}

// BalanceSource is the external indexer dependency.
type BalanceSource interface {
	BankBalances(ctx context.Context, address string) ([]portfolio.Balance, error)
}

// Service wires the wallet, catalog, indexer, and broadcaster behind the
// tool surface.
type Service struct {
	wallet       *wallet.Store
	catalog      *catalog.Catalog
	balances     BalanceSource
	broadcaster  Broadcaster
	explorerBase string
	log          *zap.Logger
}

func NewService(walletStore *wallet.Store, assetCatalog *catalog.Catalog, balances BalanceSource, bc Broadcaster, explorerBase string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		wallet:       walletStore,
		catalog:      assetCatalog,
		balances:     balances,
		broadcaster:  bc,
		explorerBase: explorerBase,
		log:          log,
	}
}

const noWalletText = "No wallet found, please create a wallet first"

// LocalAddress exposes the stored wallet address for callers that need a
// default target, such as balance checks without an explicit address.
func (s *Service) LocalAddress() (string, bool) {
	return s.wallet.Address()
}

// WalletAddress implements get-wallet-address.
func (s *Service) WalletAddress() Result {
	address, found := s.wallet.Address()
	if !found {
		return failText(agerr.CodeNoWallet, noWalletText)
	}
	return ok("Injective Address: " + address)
}

// CreateWallet implements create-wallet.
func (s *Service) CreateWallet(override bool) Result {
	created, err := s.wallet.Create(override)
	if err != nil {
		if agerr.Is(err, agerr.CodeWalletExists) {
			existing, _ := s.wallet.Address()
			return failText(agerr.CodeWalletExists,
				fmt.Sprintf("Wallet already exists, use the 'override' flag to replace it\n\nExisting Injective Address: %s", existing))
		}
		return fail(err)
	}
	s.log.Info("wallet created", zap.String("address", created.Address))
	return ok("Wallet created successfully\n\nInjective Address: " + created.Address)
}

// WalletBalance implements check-wallet-balance for an arbitrary address.
func (s *Service) WalletBalance(ctx context.Context, address string) Result {
	balances, err := s.balances.BankBalances(ctx, address)
	if err != nil {
		return fail(err)
	}

	lines := make([]string, 0, len(balances))
	for _, balance := range balances {
		token, found := s.catalog.TokenByDenom(balance.Denom)
		if !found {
			// Unverified denoms have no display metadata.
			continue
		}
		amount, err := chain.FromBaseUnits(balance.Amount, token.Decimals)
		if err != nil {
			s.log.Warn("skipping unparseable balance", zap.String("denom", balance.Denom), zap.Error(err))
			continue
		}
		lines = append(lines, fmt.Sprintf("Name: %s, Symbol: %s, Denom: %s, Amount: %s",
			token.Name, token.Symbol, token.Denom, amount))
	}
	if len(lines) == 0 {
		return ok("No verified token balances found")
	}
	return ok(strings.Join(lines, "\n\n"))
}

// SearchTokens implements search-tokens.
func (s *Service) SearchTokens(query string) Result {
	tokens := s.catalog.SearchTokens(query)
	if len(tokens) == 0 {
		return failText(agerr.CodeNotFound, "No token found")
	}
	return renderJSON(tokens)
}

// SearchSpotMarkets implements search-spot-markets.
func (s *Service) SearchSpotMarkets(query string) Result {
	markets := s.catalog.SearchSpotMarkets(query)
	if len(markets) == 0 {
		return failText(agerr.CodeNotFound, "No market found")
	}
	return renderJSON(markets)
}

// SearchDerivativeMarkets implements search-derivative-markets.
func (s *Service) SearchDerivativeMarkets(query string) Result {
	markets := s.catalog.SearchDerivativeMarkets(query)
	if len(markets) == 0 {
		return failText(agerr.CodeNotFound, "No market found")
	}
	return renderJSON(markets)
}

// SendFunds implements send-funds. The denom must resolve exactly; no
// broadcast happens when it does not.
func (s *Service) SendFunds(ctx context.Context, address, amount, denom string) Result {
	source, found := s.wallet.Address()
	if !found {
		return failText(agerr.CodeNoWallet, noWalletText)
	}

	token, found := s.catalog.TokenByDenom(denom)
	if !found {
		return failText(agerr.CodeNotFound, "Token not found")
	}

	msg, err := chain.BuildTransfer(source, address, token, amount)
	if err != nil {
		return fail(err)
	}
	return s.signAndBroadcast(ctx, []chain.Msg{msg})
}

// TradeParams are the trade-spot-market inputs.
type TradeParams struct {
	Ticker   string
	Side     string
	Quantity string
	Price    string
	Type     string
}

// TradeSpotMarket implements trade-spot-market.
func (s *Service) TradeSpotMarket(ctx context.Context, params TradeParams) Result {
	sender, found := s.wallet.Address()
	if !found {
		return failText(agerr.CodeNoWallet, noWalletText)
	}

	market, found := s.catalog.SpotMarketByTicker(params.Ticker)
	if !found {
		return failText(agerr.CodeNotFound, "Market not found")
	}

	msg, err := chain.BuildSpotOrder(sender, market,
		chain.Side(strings.ToLower(params.Side)),
		chain.OrderKind(strings.ToLower(params.Type)),
		params.Quantity, params.Price)
	if err != nil {
		return fail(err)
	}
	return s.signAndBroadcast(ctx, []chain.Msg{msg})
}

func (s *Service) signAndBroadcast(ctx context.Context, msgs []chain.Msg) Result {
	secret, found := s.wallet.SecretKey()
	if !found {
		return failText(agerr.CodeNoWallet, "No private key found")
	}

	res, err := s.broadcaster.Broadcast(ctx, msgs, secret)
	if err != nil {
		return fail(err)
	}
	return ok(fmt.Sprintf("Transaction sent successfully\n\nTx Hash: %s\n\nView on explorer: %s",
		res.TxHash, explorer.TxURL(s.explorerBase, res.TxHash)))
}

func renderJSON(v any) Result {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fail(agerr.Wrap(agerr.CodeInternal, "render result", err))
	}
	return ok(string(buf))
}
