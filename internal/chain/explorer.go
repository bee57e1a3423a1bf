package chain

import "fmt"

// explorerBase maps each supported chain to its block-explorer base URL.
var explorerBase = map[ID]string{
	SolanaMainnet: "https://solscan.io",
	Ethereum:      "https://etherscan.io",
	Polygon:       "https://polygonscan.com",
	Base:          "https://basescan.org",
	Arbitrum:      "https://arbiscan.io",
}

// ExplorerTxURL returns the explorer URL for a transaction hash, or an empty
// string for unknown chains.
func ExplorerTxURL(id ID, hash string) string {
	base, ok := explorerBase[id]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", base, hash)
}
