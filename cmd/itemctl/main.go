package main

import (
	"os"

	"github.com/ghuser/itemchain/cmd/itemctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
