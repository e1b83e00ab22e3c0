package main

import (
	"os"

	"github.com/kilupskalvis/givc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
