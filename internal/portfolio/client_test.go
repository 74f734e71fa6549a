package portfolio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/injkit/injagent/internal/httpx"
)

func TestBankBalances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/portfolio/inj1abc") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"portfolio":{"bankBalancesList":[
			{"denom":"inj","amount":"1500000000000000000"},
			{"denom":"peggy0xdac17","amount":"2500000"}
		]}}`))
	}))
	defer srv.Close()

	client := New(httpx.New(2*time.Second, 0), srv.URL)
	balances, err := client.BankBalances(context.Background(), "inj1abc")
	if err != nil {
		t.Fatalf("BankBalances: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(balances))
	}
	if balances[0].Denom != "inj" || balances[0].Amount != "1500000000000000000" {
		t.Fatalf("unexpected balance %+v", balances[0])
	}
}

func TestBankBalancesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(httpx.New(2*time.Second, 0), srv.URL)
	if _, err := client.BankBalances(context.Background(), "inj1abc"); err == nil {
		t.Fatal("expected upstream error")
	}
}
