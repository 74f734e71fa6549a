package explorer

import "testing"

func TestTxURL(t *testing.T) {
	cases := []struct {
		base string
		hash string
		want string
	}{
		{"https://injscan.com/transaction", "ABC123", "https://injscan.com/transaction/ABC123"},
		{"https://injscan.com/transaction/", "ABC123", "https://injscan.com/transaction/ABC123"},
		{"https://injscan.com/transaction", "0xABC123", "https://injscan.com/transaction/ABC123"},
	}
	for _, tc := range cases {
		if got := TxURL(tc.base, tc.hash); got != tc.want {
			t.Fatalf("TxURL(%q, %q) = %q, want %q", tc.base, tc.hash, got, tc.want)
		}
	}
}
