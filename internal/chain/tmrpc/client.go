// Package tmrpc talks to a Tendermint-style node over JSON-RPC and the
// chain's REST gateway. It owns the transaction codec the broadcaster
// depends on; swapping in a different wire format means swapping this
// package, not the broadcaster.
package tmrpc

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/injkit/injagent/internal/chain"
	"github.com/injkit/injagent/internal/chain/broadcaster"
	agerr "github.com/injkit/injagent/internal/errors"
	"github.com/injkit/injagent/internal/httpx"
)

// Fee is the fixed fee attached to every transaction.
type Fee struct {
	Amount []chain.Coin `json:"amount"`
	Gas    string       `json:"gas"`
}

// DefaultFee covers the message shapes this agent produces.
var DefaultFee = Fee{
	Amount: []chain.Coin{{Amount: "200000000000000", Denom: "inj"}},
	Gas:    "400000",
}

type Client struct {
	http    *httpx.Client
	rpcURL  string
	restURL string
	chainID string
	fee     Fee
}

func New(httpClient *httpx.Client, rpcURL, restURL, chainID string) *Client {
	return &Client{
		http:    httpClient,
		rpcURL:  strings.TrimRight(rpcURL, "/"),
		restURL: strings.TrimRight(restURL, "/"),
		chainID: chainID,
		fee:     DefaultFee,
	}
}

// accountResponse covers both the bare BaseAccount shape and chains that
// nest it under base_account.
type accountResponse struct {
	Account struct {
		AccountNumber string `json:"account_number"`
		Sequence      string `json:"sequence"`
		BaseAccount   *struct {
			AccountNumber string `json:"account_number"`
			Sequence      string `json:"sequence"`
		} `json:"base_account"`
	} `json:"account"`
}

func (c *Client) Account(ctx context.Context, address string) (broadcaster.AccountInfo, error) {
	var resp accountResponse
	url := fmt.Sprintf("%s/cosmos/auth/v1beta1/accounts/%s", c.restURL, address)
	if err := c.http.GetJSON(ctx, url, &resp); err != nil {
		return broadcaster.AccountInfo{}, err
	}

	numberStr, sequenceStr := resp.Account.AccountNumber, resp.Account.Sequence
	if resp.Account.BaseAccount != nil {
		numberStr, sequenceStr = resp.Account.BaseAccount.AccountNumber, resp.Account.BaseAccount.Sequence
	}
	number, err := strconv.ParseUint(numberStr, 10, 64)
	if err != nil {
		return broadcaster.AccountInfo{}, agerr.Wrap(agerr.CodeUnavailable, "parse account number", err)
	}
	sequence, err := strconv.ParseUint(sequenceStr, 10, 64)
	if err != nil {
		return broadcaster.AccountInfo{}, agerr.Wrap(agerr.CodeUnavailable, "parse account sequence", err)
	}
	return broadcaster.AccountInfo{Number: number, Sequence: sequence}, nil
}

type signDocMsg struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// signDoc fields stay alphabetical so marshaling is canonical.
type signDoc struct {
	AccountNumber string       `json:"account_number"`
	ChainID       string       `json:"chain_id"`
	Fee           Fee          `json:"fee"`
	Memo          string       `json:"memo"`
	Msgs          []signDocMsg `json:"msgs"`
	Sequence      string       `json:"sequence"`
}

func (c *Client) SignDoc(msgs []chain.Msg, acc broadcaster.AccountInfo) ([]byte, error) {
	doc := signDoc{
		AccountNumber: strconv.FormatUint(acc.Number, 10),
		ChainID:       c.chainID,
		Fee:           c.fee,
		Memo:          "",
		Msgs:          make([]signDocMsg, 0, len(msgs)),
		Sequence:      strconv.FormatUint(acc.Sequence, 10),
	}
	for _, msg := range msgs {
		doc.Msgs = append(doc.Msgs, signDocMsg{Type: msg.TypeURL(), Value: msg.SignValue()})
	}
	return json.Marshal(doc)
}

type txEnvelope struct {
	Doc       json.RawMessage `json:"doc"`
	PubKey    string          `json:"pub_key"`
	Signature string          `json:"signature"`
}

func (c *Client) EncodeTx(doc, pubKey, signature []byte) ([]byte, error) {
	return json.Marshal(txEnvelope{
		Doc:       doc,
		PubKey:    base64.StdEncoding.EncodeToString(pubKey),
		Signature: base64.StdEncoding.EncodeToString(signature),
	})
}

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      int               `json:"id"`
	Method  string            `json:"method"`
	Params  map[string]string `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *rpcError) text() string {
	if e.Data != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Data)
	}
	return e.Message
}

type broadcastResponse struct {
	Result struct {
		Code uint32 `json:"code"`
		Log  string `json:"log"`
		Hash string `json:"hash"`
	} `json:"result"`
	Error *rpcError `json:"error,omitempty"`
}

func (c *Client) BroadcastTxSync(ctx context.Context, txBytes []byte) (string, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "broadcast_tx_sync",
		Params:  map[string]string{"tx": base64.StdEncoding.EncodeToString(txBytes)},
	})
	if err != nil {
		return "", agerr.Wrap(agerr.CodeInternal, "encode broadcast request", err)
	}

	var resp broadcastResponse
	if err := c.http.PostJSON(ctx, c.rpcURL, body, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", agerr.New(agerr.CodeBroadcast, resp.Error.text())
	}
	if resp.Result.Code != 0 {
		return "", agerr.New(agerr.CodeBroadcast, fmt.Sprintf("transaction rejected (code %d): %s", resp.Result.Code, resp.Result.Log))
	}
	return resp.Result.Hash, nil
}

type txResponse struct {
	Result struct {
		Height   string `json:"height"`
		TxResult struct {
			Code uint32 `json:"code"`
			Log  string `json:"log"`
		} `json:"tx_result"`
	} `json:"result"`
	Error *rpcError `json:"error,omitempty"`
}

func (c *Client) TxConfirmed(ctx context.Context, txHash string) (bool, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(txHash, "0x"))
	if err != nil {
		return false, agerr.Wrap(agerr.CodeInternal, "decode tx hash", err)
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tx",
		Params:  map[string]string{"hash": base64.StdEncoding.EncodeToString(raw)},
	})
	if err != nil {
		return false, agerr.Wrap(agerr.CodeInternal, "encode tx query", err)
	}

	var resp txResponse
	if err := c.http.PostJSON(ctx, c.rpcURL, body, &resp); err != nil {
		return false, err
	}
	if resp.Error != nil {
		// A missing tx means it has not been included yet.
		if strings.Contains(strings.ToLower(resp.Error.text()), "not found") {
			return false, nil
		}
		return false, agerr.New(agerr.CodeBroadcast, resp.Error.text())
	}
	if resp.Result.TxResult.Code != 0 {
		return false, agerr.New(agerr.CodeBroadcast,
			fmt.Sprintf("transaction failed on chain (code %d): %s", resp.Result.TxResult.Code, resp.Result.TxResult.Log))
	}
	return resp.Result.Height != "" && resp.Result.Height != "0", nil
}
