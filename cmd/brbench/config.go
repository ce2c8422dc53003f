package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrhapile/brainrot-fuzz/bench"
)

// Config defines program configuration.
type Config struct {
	bench.Options
	JSON     bool   // Print the summary as JSON instead of text?
	LogLevel string // btclog level name.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	c := Config{Options: bench.Options{Count: 10}, LogLevel: "info"}

	flag.Usage = func() {
		fmt.Printf("%s [options] <executable> <source file> [input file]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.IntVar(&c.Count, "count", c.Count, "Number of warm-up runs, and of measured runs.")
	flag.BoolVar(&c.JSON, "json", c.JSON, "Print the summary as JSON.")
	flag.StringVar(&c.LogLevel, "loglevel", c.LogLevel, "Log level: trace, debug, info, warn, error, critical or off.")
	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	c.Exec = flag.Arg(0)
	c.Source = flag.Arg(1)
	c.Input = flag.Arg(2)
	return &c
}
