package main

import (
	"os"

	"homekeep/cmd/homekeep/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
