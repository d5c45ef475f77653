package main

import (
	"os"

	"github.com/rustyeddy/riskdash/cmd/riskdash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
