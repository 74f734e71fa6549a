// Package catalog holds the token and market snapshots for the active
// network and resolves human queries against them.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/injkit/injagent/internal/cache"
	agerr "github.com/injkit/injagent/internal/errors"
	"github.com/injkit/injagent/internal/httpx"
	"github.com/injkit/injagent/internal/model"
	"github.com/injkit/injagent/internal/search"
)

// MaxResults caps ranked search output.
const MaxResults = 5

// snapshot is an immutable view of all three collections plus the derived
// lookup structures. It is built fully before being published, so readers
// never observe a partially loaded catalog.
type snapshot struct {
	tokens            []model.Token
	spotMarkets       []model.SpotMarket
	derivativeMarkets []model.DerivativeMarket

	tokensByDenom map[string]model.Token
	spotByTicker  map[string]model.SpotMarket

	tokenIndex      *search.Index[model.Token]
	spotIndex       *search.Index[model.SpotMarket]
	derivativeIndex *search.Index[model.DerivativeMarket]
}

type Catalog struct {
	http    *httpx.Client
	base    string
	network string
	store   *cache.Store
	ttl     time.Duration
	log     *zap.Logger

	snap atomic.Pointer[snapshot]
}

// New builds a catalog for one network. store may be nil to disable the
// snapshot cache.
func New(httpClient *httpx.Client, baseURL, network string, store *cache.Store, ttl time.Duration, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{
		http:    httpClient,
		base:    strings.TrimRight(baseURL, "/"),
		network: network,
		store:   store,
		ttl:     ttl,
		log:     log,
	}
}

// LoadAll fetches the token, spot market, and derivative market snapshots
// concurrently and publishes them atomically. Any single failure fails the
// whole load; lookups stay unavailable until a load succeeds.
func (c *Catalog) LoadAll(ctx context.Context) error {
	var (
		tokens      []model.Token
		spots       []model.SpotMarket
		derivatives []model.DerivativeMarket
	)

	var wg sync.WaitGroup
	errCh := make(chan error, 3)
	fetch := func(path string, out any) {
		defer wg.Done()
		if err := c.fetch(ctx, path, out); err != nil {
			errCh <- err
		}
	}
	wg.Add(3)
	go fetch(fmt.Sprintf("/json/tokens/verified/%s.json", c.network), &tokens)
	go fetch(fmt.Sprintf("/json/market/spot/%s.json", c.network), &spots)
	go fetch(fmt.Sprintf("/json/market/derivative/%s.json", c.network), &derivatives)
	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return agerr.Wrap(agerr.CodeUnavailable, "load asset catalog", err)
	}

	c.snap.Store(buildSnapshot(tokens, spots, derivatives))
	c.log.Info("asset catalog loaded",
		zap.String("network", c.network),
		zap.Int("tokens", len(tokens)),
		zap.Int("spot_markets", len(spots)),
		zap.Int("derivative_markets", len(derivatives)),
	)
	return nil
}

// Ready reports whether a snapshot has been published.
func (c *Catalog) Ready() bool { return c.snap.Load() != nil }

// SearchTokens returns up to MaxResults ranked token matches. Denoms weigh
// highest, then symbols, then full names.
func (c *Catalog) SearchTokens(query string) []model.Token {
	snap := c.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.tokenIndex.Search(query, MaxResults)
}

// SearchSpotMarkets returns up to MaxResults ranked spot market matches by
// ticker.
func (c *Catalog) SearchSpotMarkets(query string) []model.SpotMarket {
	snap := c.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.spotIndex.Search(query, MaxResults)
}

// SearchDerivativeMarkets returns up to MaxResults ranked derivative market
// matches by ticker.
func (c *Catalog) SearchDerivativeMarkets(query string) []model.DerivativeMarket {
	snap := c.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.derivativeIndex.Search(query, MaxResults)
}

// TokenByDenom resolves a canonical on-chain identifier. Exact and
// case-sensitive: fuzzy matching is never appropriate for a denom.
func (c *Catalog) TokenByDenom(denom string) (model.Token, bool) {
	snap := c.snap.Load()
	if snap == nil {
		return model.Token{}, false
	}
	token, ok := snap.tokensByDenom[denom]
	return token, ok
}

// SpotMarketByTicker resolves a ticker case-insensitively but exactly.
func (c *Catalog) SpotMarketByTicker(ticker string) (model.SpotMarket, bool) {
	snap := c.snap.Load()
	if snap == nil {
		return model.SpotMarket{}, false
	}
	market, ok := snap.spotByTicker[strings.ToLower(strings.TrimSpace(ticker))]
	return market, ok
}

// Tokens returns the loaded token collection.
func (c *Catalog) Tokens() []model.Token {
	snap := c.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.tokens
}

func (c *Catalog) fetch(ctx context.Context, path string, out any) error {
	key := c.network + path

	if c.store != nil {
		res, err := c.store.Get(key, c.ttl)
		if err != nil {
			c.log.Warn("snapshot cache read failed", zap.String("key", key), zap.Error(err))
		} else if res.Hit && res.Fresh {
			if err := json.Unmarshal(res.Value, out); err == nil {
				c.log.Debug("snapshot served from cache", zap.String("key", key), zap.Duration("age", res.Age))
				return nil
			}
			c.log.Warn("cached snapshot is corrupt, refetching", zap.String("key", key))
		}
	}

	var raw json.RawMessage
	if err := c.http.GetJSON(ctx, c.base+path, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return agerr.Wrap(agerr.CodeUnavailable, "decode snapshot", err)
	}

	if c.store != nil {
		if err := c.store.Set(key, raw); err != nil {
			// Cache writes are best effort; the fetched data is good.
			c.log.Warn("snapshot cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func buildSnapshot(tokens []model.Token, spots []model.SpotMarket, derivatives []model.DerivativeMarket) *snapshot {
	snap := &snapshot{
		tokens:            tokens,
		spotMarkets:       spots,
		derivativeMarkets: derivatives,
		tokensByDenom:     make(map[string]model.Token, len(tokens)),
		spotByTicker:      make(map[string]model.SpotMarket, len(spots)),
		tokenIndex:        search.New[model.Token](search.DefaultThreshold),
		spotIndex:         search.New[model.SpotMarket](search.DefaultThreshold),
		derivativeIndex:   search.New[model.DerivativeMarket](search.DefaultThreshold),
	}
	for _, token := range tokens {
		snap.tokensByDenom[token.Denom] = token
		snap.tokenIndex.Add(token,
			search.Field{Text: token.Denom, Weight: 3},
			search.Field{Text: token.Symbol, Weight: 2},
			search.Field{Text: token.Name, Weight: 1},
		)
	}
	for _, market := range spots {
		snap.spotByTicker[strings.ToLower(market.Ticker)] = market
		snap.spotIndex.Add(market, search.Field{Text: market.Ticker, Weight: 1})
	}
	for _, market := range derivatives {
		snap.derivativeIndex.Add(market, search.Field{Text: market.Ticker, Weight: 1})
	}
	return snap
}
