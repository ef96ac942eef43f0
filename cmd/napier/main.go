package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/napier-ai/napier/agent"
	"github.com/napier-ai/napier/agent/terminal"
	"github.com/napier-ai/napier/config"
	"github.com/napier-ai/napier/llm"
	"github.com/napier-ai/napier/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFlag := flag.String("config", "", "Path to the napier.yaml configuration file")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *debugFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Warn().Err(err).Msg("using default configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing API credential is fatal before any interactive state exists.
	client, err := llm.New(ctx, cfg.Napier.Provider, cfg.Napier.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Set the API key for the configured model provider in the environment.")
		return 1
	}

	tools := mcp.NewSession()
	napierAgent := agent.New(cfg, client, tools)
	term := terminal.New(napierAgent, cfg, tools)

	// The terminal blocks on stdin, so it runs in its own goroutine and the
	// interrupt path races it to the select below.
	errCh := make(chan error, 1)
	go func() {
		errCh <- term.Run(ctx, flag.Arg(0))
	}()

	var runErr error
	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "\nInterrupt received. Exiting Napier...")
	case runErr = <-errCh:
	}

	// Session teardown happens on every exit path, interrupt included.
	if err := tools.Close(); err != nil {
		log.Warn().Err(err).Msg("error releasing MCP session")
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 1
	}
	return 0
}
