// Command rulebot answers single questions about the NFL rulebook. Every
// question is independent: no conversation history is kept between turns.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"rulebot/internal/app"
	"rulebot/internal/repl"
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

	ctx := context.Background()
	stats, err := a.Ingest(ctx, folder)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}

	banner := fmt.Sprintf(
		"Welcome to the NFL Rule Assistant!\nLoaded %d documents into %d chunks (%d tokens).\n\n%s\n\nAsk a question about the rules, or type 'quit' to exit.",
		stats.Documents, stats.Chunks, stats.Tokens, stats.Summary,
	)

	err = repl.Run(ctx, os.Stdin, os.Stdout, banner, func(ctx context.Context, question string) (string, error) {
		result, err := a.Answer(ctx, question)
		if err != nil {
			return "", err
		}
		return result.Answer, nil
	})
	if err != nil {
		log.Fatalf("input: %v", err)
	}
}
