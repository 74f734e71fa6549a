// Package model holds the domain types shared across the catalog, message
// building, and tool layers.
package model

// Token is one entry of the verified token snapshot. Decimals is the scale
// factor between human units and chain base units.
type Token struct {
	Denom       string `json:"denom"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Decimals    int    `json:"decimals"`
	Logo        string `json:"logo,omitempty"`
	CoinGeckoID string `json:"coinGeckoId,omitempty"`
}

// SpotMarket is one entry of the spot market snapshot.
type SpotMarket struct {
	MarketID   string `json:"marketId"`
	Ticker     string `json:"ticker"`
	BaseDenom  string `json:"baseDenom"`
	QuoteDenom string `json:"quoteDenom"`
	BaseToken  *Token `json:"baseToken,omitempty"`
	QuoteToken *Token `json:"quoteToken,omitempty"`
}

// DerivativeMarket is one entry of the derivative market snapshot. Only
// searched as metadata; no derivative orders are built.
type DerivativeMarket struct {
	MarketID   string `json:"marketId"`
	Ticker     string `json:"ticker"`
	QuoteDenom string `json:"quoteDenom"`
	QuoteToken *Token `json:"quoteToken,omitempty"`
}

// BaseDecimals returns the base token's scale, zero when unknown.
func (m SpotMarket) BaseDecimals() int {
	if m.BaseToken == nil {
		return 0
	}
	return m.BaseToken.Decimals
}

// QuoteDecimals returns the quote token's scale, zero when unknown.
func (m SpotMarket) QuoteDecimals() int {
	if m.QuoteToken == nil {
		return 0
	}
	return m.QuoteToken.Decimals
}
