package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lorekeeper/lorekeeper/internal/config"
	"github.com/lorekeeper/lorekeeper/internal/providers"
	"github.com/lorekeeper/lorekeeper/internal/session"
	"github.com/lorekeeper/lorekeeper/internal/worldstore"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show lorekeeper status",
	RunE:  runStatus,
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := resolvedConfigPath()

	fmt.Printf("%s lorekeeper Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	fmt.Printf("Config:    %s %s\n", cfgPath, mark(statErr == nil))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	fmt.Printf("Model:     %s\n", cfg.Agent.Model)
	if name := cfg.GetProviderName(""); name != "" {
		fmt.Printf("Provider:  %s → %s\n", name, cfg.GetAPIBase(""))
	} else {
		fmt.Printf("Provider:  %s no provider matches this model\n", mark(false))
	}
	fmt.Printf("Rounds:    %d, timeout %s\n\n", cfg.Agent.MaxRounds, cfg.Timeout())

	world, err := worldstore.Open(worldstore.Options{
		Backend: cfg.Store.Backend,
		Dir:     cfg.StoreDir(),
		DBPath:  cfg.StoreDBPath(),
	})
	if err != nil {
		fmt.Printf("Store:     %s (%v)\n", mark(false), err)
	} else {
		defer world.Close()
		enemies, items, perr := world.Presence(context.Background())
		fmt.Printf("Store:     %s at %s\n", world.Backend, cfg.StoreDir())
		if perr != nil {
			fmt.Printf("  (could not inspect store: %v)\n", perr)
		} else {
			fmt.Printf("  enemies  %s\n", mark(enemies))
			fmt.Printf("  items    %s\n", mark(items))
		}
	}

	if saves, err := session.NewManager(config.SavesDir()); err == nil {
		list := saves.List()
		fmt.Printf("Saves:     %d in %s\n", len(list), saves.Dir())
		for i, sv := range list {
			if i == 5 {
				fmt.Printf("  … %d more\n", len(list)-i)
				break
			}
			fmt.Printf("  %-20s %s\n", sv.Key, sv.UpdatedAt)
		}
	}

	fmt.Println("\nProviders:")
	for _, spec := range providers.PROVIDERS {
		p := cfg.ProviderByName(spec.Name)
		if p == nil {
			continue
		}
		label := spec.Label()
		switch {
		case spec.IsLocal:
			if p.APIBase != "" {
				fmt.Printf("  %-20s ✓ %s\n", label, p.APIBase)
			} else {
				fmt.Printf("  %-20s (not set)\n", label)
			}
		default:
			if p.APIKey != "" {
				fmt.Printf("  %-20s ✓\n", label)
			} else {
				fmt.Printf("  %-20s (not set)\n", label)
			}
		}
	}
	return nil
}
