package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lorekeeper/lorekeeper/internal/config"
	"github.com/lorekeeper/lorekeeper/internal/worldstore"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration and seed the world store",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := resolvedConfigPath()

	var cfg *config.Config
	if _, err := os.Stat(cfgPath); err == nil {
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		cfg = existing
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		def := config.DefaultConfig()
		cfg = &def
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	world, err := worldstore.Open(worldstore.Options{
		Backend: cfg.Store.Backend,
		Dir:     cfg.StoreDir(),
		DBPath:  cfg.StoreDBPath(),
	})
	if err != nil {
		return err
	}
	defer world.Close()

	seeded, err := world.Seed(context.Background())
	if err != nil {
		return fmt.Errorf("seed world store: %w", err)
	}
	for _, name := range seeded {
		fmt.Printf("  Seeded %s\n", name)
	}
	fmt.Printf("✓ World store (%s) at %s\n", world.Backend, cfg.StoreDir())

	fmt.Printf("\n%s lorekeeper is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Start Ollama with %s, or set a provider key in %s\n", cfg.Agent.Model, cfgPath)
	fmt.Printf("  2. Play: lorekeeper ask -m \"I walk into the tavern\"\n")
	fmt.Printf("  3. Serve the browser client: lorekeeper serve --static ./public\n")
	return nil
}
