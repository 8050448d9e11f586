package main

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/rankwatch/internal/app"
)

// version is injected at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	app.SetVersion(version)
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
