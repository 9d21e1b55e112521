package main

import (
	"os"

	"github.com/equitydesk/equitydesk/cmd/equitydesk/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
