package main

import (
	"os"

	"nameplate/cmd/nameplatectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
