package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lorekeeper/lorekeeper/internal/agent"
	"github.com/lorekeeper/lorekeeper/internal/config"
	"github.com/lorekeeper/lorekeeper/internal/dependency"
	"github.com/lorekeeper/lorekeeper/internal/gameupdate"
	"github.com/lorekeeper/lorekeeper/internal/schema"
	"github.com/lorekeeper/lorekeeper/internal/session"
	"github.com/lorekeeper/lorekeeper/internal/shared/cmdutils"
)

var (
	askMessage   string
	askEphemeral bool
	askShowState bool
	askSave      string
	askWindow    int
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Play against the in-process narrator",
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMessage, "message", "m", "", "Send a single message and exit")
	askCmd.Flags().BoolVar(&askEphemeral, "ephemeral", false, "Use a seeded in-memory world store")
	askCmd.Flags().BoolVar(&askShowState, "state", false, "Print the player status after every reply")
	askCmd.Flags().StringVarP(&askSave, "save", "s", "", "Resume and keep saving the named game")
	askCmd.Flags().IntVar(&askWindow, "window", 0, "Send only the last N messages of history (0 sends all)")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

type narrator interface {
	Run(ctx context.Context, transcript schema.Messages) agent.Result
}

// game is one local adventure: the conversation so far plus the player state
// rebuilt from every [GAME_UPDATE] block.
type game struct {
	orch     narrator
	guidance string
	persona  string
	save     *session.Session
	saves    *session.Manager // nil when the game is not persisted
	window   int
	out      io.Writer
}

// transcript rebuilds the request the browser client would send: the
// narrator persona with the current status first, then the conversation.
func (g *game) transcript(line string) schema.Messages {
	t := schema.NewMessages()
	if g.guidance != "" {
		t.AddSystem(g.guidance)
	}
	t.AddSystem(strings.TrimSpace(g.persona) + "\n\n" + g.save.State.Status())
	for _, m := range g.save.History(g.window) {
		t.Add(m)
	}
	t.AddUser(line)
	return t
}

func (g *game) turn(ctx context.Context, line string) error {
	res := g.orch.Run(ctx, g.transcript(line))
	if res.Exit == agent.ExitInfrastructure {
		return errors.New(res.Content)
	}

	g.save.AddTurn(line, res.Content)

	narrative, directives := gameupdate.Parse(res.Content)
	cmdutils.PrintResponse(g.out, narrative)
	for _, note := range g.save.State.Apply(directives) {
		fmt.Fprintf(g.out, "  ↳ %s\n", note)
	}
	if askShowState {
		fmt.Fprintf(g.out, "\n%s\n", g.save.State.Status())
	}

	g.persist()
	return nil
}

// restart throws the current game away, on disk too when it is saved.
func (g *game) restart() {
	g.save.Clear()
	g.persist()
}

func (g *game) persist() {
	if g.saves == nil {
		return
	}
	if err := g.saves.Save(g.save); err != nil {
		slog.Warn("Failed to save game", "key", g.save.Key, "err", err)
	}
}

func runAsk(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if askEphemeral {
		cfg.Store.Backend = "memory"
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	g := &game{
		orch:     container.Orchestrator(),
		guidance: container.Guidance(),
		persona:  container.Catalog().Persona,
		save:     session.New("scratch"),
		window:   askWindow,
		out:      os.Stdout,
	}
	if askSave != "" {
		saves, err := session.NewManager(config.SavesDir())
		if err != nil {
			return err
		}
		if g.save, err = saves.GetOrCreate(askSave); err != nil {
			return err
		}
		g.saves = saves
		if n := g.save.Len(); n > 0 {
			fmt.Fprintf(os.Stderr, "  ↳ resumed %q (%d messages)\n", askSave, n)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if askMessage != "" {
		fmt.Fprintf(os.Stderr, "  ↳ thinking...\n")
		return g.turn(ctx, askMessage)
	}
	return runInteractive(ctx, g)
}

// runInteractive reads lines from stdin and answers each before prompting again.
func runInteractive(ctx context.Context, g *game) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", logo)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("You: ")

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Println("\nGoodbye!")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		if line == "/new" {
			g.restart()
			fmt.Println("A fresh adventure begins.")
			continue
		}

		if err := g.turn(ctx, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}
