package main

import (
	"os"

	"SeedWithWarehouse/internal/cli"
	"SeedWithWarehouse/internal/version"
)

func main() {
	if err := cli.Execute(version.GetVersion().String()); err != nil {
		os.Exit(1)
	}
}
