// Package explorer formats block-explorer links for broadcast results.
package explorer

import "strings"

// TxURL joins the network's explorer base with a transaction hash.
func TxURL(base, txHash string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimPrefix(txHash, "0x")
}
