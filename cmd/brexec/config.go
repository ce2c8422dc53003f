package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/mrhapile/brainrot-fuzz/interp"
)

// Config defines program configuration.
type Config struct {
	Source string // Program or artifact file to run.
	Budget int64  // Step budget; interp.Unbounded runs to completion.
	Debug  bool   // Dump the full result to stderr?
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	c := Config{Budget: interp.Unbounded}

	flag.Usage = func() {
		fmt.Printf("%s [options] <source file> [step budget]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.BoolVar(&c.Debug, "debug", c.Debug, "Print a dump of the execution result to stderr.")
	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	c.Source = flag.Arg(0)

	// A missing or unparsable budget runs without limit.
	if flag.NArg() > 1 {
		if n, err := strconv.ParseInt(flag.Arg(1), 10, 64); err == nil {
			c.Budget = n
		}
	}
	return &c
}
