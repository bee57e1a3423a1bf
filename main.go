package main

import "github.com/pocketvault/wallet-core/cmd"

func main() {
	cmd.Execute()
}
