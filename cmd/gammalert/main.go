package main

import (
	"os"

	"github.com/wonny/gammalert/cmd/gammalert/commands"
)

// main is the entry point for the gammalert CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/gammalert [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
