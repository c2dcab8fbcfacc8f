package main

import (
	"log"
	"os"

	"ryujin/cmd"
	"ryujin/config"
	"ryujin/providers/madara"

	// Registers the built-in providers.
	_ "ryujin/sites"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime)

	cfg := config.Get()
	if cfg.ExternalProvider && cfg.ExternalProviderPath != "" {
		madara.LoadDirectory(cfg.ExternalProviderPath)
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
