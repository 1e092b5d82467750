package main

import (
	"os"

	"github.com/progtrack-dev/progtrack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
