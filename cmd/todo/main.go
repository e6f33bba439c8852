package main

import (
	"context"
	"fmt"
	"os"

	"todo/internal/cli"
	"todo/internal/config"
	"todo/internal/logging"
)

func main() {
	configPath := os.Getenv("TODO_CONFIG")
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		logging.MustMakeLogger("ERROR").Error("cannot load configuration", "path", configPath, "error", err)
		os.Exit(1)
	}

	root := cli.NewRootCommand(cli.StoreBackend, cfg)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.NewErrorHandler().ExitCode(err))
	}
}
