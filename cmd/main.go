package main

import (
	"os"

	"github.com/loomworks/scout/cmd/scout"
)

func main() {
	if err := scout.Execute(); err != nil {
		os.Exit(1)
	}
}
