package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"price-stalker/internal/cli"
	"price-stalker/internal/config"
	"price-stalker/internal/logging"
)

func main() {
	// Optional .env with STALKER_* overrides; missing file is fine.
	_ = godotenv.Load()

	logger := logging.NewLogger()

	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath pre-scans args for --config so the configuration can be
// loaded before the command tree is built.
func configPath(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
