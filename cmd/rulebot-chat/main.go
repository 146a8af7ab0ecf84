// Command rulebot-chat is the conversational NFL rulebook assistant.
// Follow-up questions are rewritten against the session transcript before
// retrieval, so "what's the penalty for that?" resolves to the topic of the
// previous turn.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"rulebot/internal/app"
	"rulebot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config.yaml (default: ./config.yaml, then ~/.config/rulebot/config.yaml)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-config path] <documents-folder>\n", os.Args[0])
		os.Exit(2)
	}
	folder := flag.Arg(0)

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	a, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}

	stats, err := a.Ingest(context.Background(), folder)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}

	summary := fmt.Sprintf("%d documents, %d chunks, %d tokens. %s",
		stats.Documents, stats.Chunks, stats.Tokens, stats.Summary)

	model := tui.New(a, uuid.NewString(), summary)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("tui: %v", err)
	}
}
