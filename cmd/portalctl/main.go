package main

import (
	"os"

	"dealerportal/cmd/portalctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
