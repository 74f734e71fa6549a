// Package portfolio queries the external indexing service for the bank
// balances of an address.
package portfolio

import (
	"context"
	"fmt"
	"strings"

	"github.com/injkit/injagent/internal/httpx"
)

// Balance is one bank balance in base units.
type Balance struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

type Client struct {
	http    *httpx.Client
	baseURL string
}

func New(httpClient *httpx.Client, baseURL string) *Client {
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

type portfolioResponse struct {
	Portfolio struct {
		BankBalances []Balance `json:"bankBalancesList"`
	} `json:"portfolio"`
}

// BankBalances returns the base-unit bank balances held by address.
func (c *Client) BankBalances(ctx context.Context, address string) ([]Balance, error) {
	var resp portfolioResponse
	url := fmt.Sprintf("%s/api/account/v1/portfolio/%s", c.baseURL, address)
	if err := c.http.GetJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	return resp.Portfolio.BankBalances, nil
}
