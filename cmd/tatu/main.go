package main

import (
	"os"

	"github.com/garagon/tatu/cmd/tatu/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(2)
	}
}
