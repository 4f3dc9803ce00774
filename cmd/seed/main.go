// seed loads the demo dataset into the configured store. Safe to run more
// than once: existing records are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"discoverme-mcp/internal/config"
	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/seed"
	"discoverme-mcp/internal/storage"
)

func main() {
	var (
		provider = flag.String("provider", "", "Storage provider: sqlite or memory (overrides config)")
		path     = flag.String("path", "", "SQLite database path (overrides config)")
	)
	flag.Parse()

	errColor := color.New(color.FgRed, color.Bold)
	okColor := color.New(color.FgGreen)
	infoColor := color.New(color.FgYellow)

	cfg, err := config.LoadConfig()
	if err != nil {
		errColor.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *provider != "" {
		cfg.Storage.Provider = *provider
	}
	if *path != "" {
		cfg.Storage.Path = *path
	}

	logger := logging.NewLogger(logging.ParseLogLevel(cfg.Logging.Level))

	store, err := openStore(cfg, logger)
	if err != nil {
		errColor.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			errColor.Fprintf(os.Stderr, "error closing store: %v\n", cerr)
		}
	}()

	infoColor.Printf("Seeding %s store", cfg.Storage.Provider)
	if cfg.Storage.Provider == "sqlite" {
		infoColor.Printf(" at %s", cfg.Storage.Path)
	}
	fmt.Println()

	summary, err := seed.NewSeeder(store, logger).Run(context.Background())
	if err != nil {
		errColor.Fprintf(os.Stderr, "seeding failed: %v\n", err)
		os.Exit(1)
	}

	okColor.Printf("Profiles:        %d created, %d skipped\n", summary.ProfilesCreated, summary.ProfilesSkipped)
	okColor.Printf("Connections:     %d created, %d skipped\n", summary.ConnectionsCreated, summary.ConnectionsSkipped)
	okColor.Printf("Recommendations: %d created, %d skipped\n", summary.RecommendationsCreated, summary.RecommendationsSkipped)
}

func openStore(cfg *config.Config, logger logging.Logger) (storage.Store, error) {
	switch cfg.Storage.Provider {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "sqlite":
		return storage.NewSQLiteStore(cfg.Storage.Path, logger)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}
}
