package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/btcsuite/btclog"

	"github.com/mrhapile/brainrot-fuzz/bench"
)

func main() {
	config := parseArgs()

	lvl, ok := btclog.LevelFromString(config.LogLevel)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown log level %q\n", config.LogLevel)
		os.Exit(1)
	}
	logger := btclog.NewBackend(os.Stderr).Logger("BNCH")
	logger.SetLevel(lvl)
	bench.UseLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := bench.Run(ctx, config.Options)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if config.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(summary)
		return
	}

	fmt.Printf("avg: %.0fns\n", summary.Average)
	fmt.Printf("min: %dns p50: %dns p90: %dns p99: %dns max: %dns\n",
		summary.Min, summary.P50, summary.P90, summary.P99, summary.Max)
}
