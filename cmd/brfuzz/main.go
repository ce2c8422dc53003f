package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/btcsuite/btclog"
	"github.com/pkg/errors"

	"github.com/mrhapile/brainrot-fuzz/fuzz"
	"github.com/mrhapile/brainrot-fuzz/gen"
)

func main() {
	// Ensure we never panic from main
	defer func() {
		if r := recover(); r != nil {
			errorResult := map[string]interface{}{
				"error":   "fatal panic in main",
				"details": fmt.Sprintf("%v", r),
			}
			json.NewEncoder(os.Stderr).Encode(errorResult)
			os.Exit(1)
		}
	}()

	config := parseArgs()
	setupLogging(config.LogLevel)

	if !config.Quiet {
		config.Progress = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := fuzz.NewDriver(
		config.Config,
		gen.NewSeeded(config.Seed),
		fuzz.NewProcessSubject(config.Subject, config.SubjectArgs...),
		fuzz.NewDirStore(config.ArtifactDir),
	)

	report, err := driver.Run(ctx)
	report.Seed = config.Seed

	if config.Progress != nil {
		fmt.Fprintln(config.Progress)
	}

	if encErr := outputJSON(report); encErr != nil {
		fmt.Fprintf(os.Stderr, "failed to encode JSON output: %v\n", encErr)
		os.Exit(1)
	}

	if err != nil {
		fatal("fuzzer execution failed", err)
	}
}

// setupLogging routes every package logger to stderr at the named level.
func setupLogging(level string) {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		fatal("invalid log level", errors.Errorf("unknown level %q", level))
	}

	backend := btclog.NewBackend(os.Stderr)

	fuzzLog := backend.Logger("FUZZ")
	fuzzLog.SetLevel(lvl)
	fuzz.UseLogger(fuzzLog)

	genLog := backend.Logger("GEN")
	genLog.SetLevel(lvl)
	gen.UseLogger(genLog)
}

// outputJSON writes the report as formatted JSON to stdout
func outputJSON(report fuzz.Report) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// fatal prints msg and err as a JSON object on stderr and exits.
func fatal(msg string, err error) {
	errorResult := map[string]string{
		"error":   msg,
		"details": err.Error(),
	}
	json.NewEncoder(os.Stderr).Encode(errorResult)
	os.Exit(1)
}
