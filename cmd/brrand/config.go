package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Config defines program configuration.
type Config struct {
	Min  int   // Minimum program length.
	Max  int   // Length at which open loops are force-closed.
	Seed int64 // Generator seed; 0 picks one from the clock.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	c := Config{Min: 100, Max: 500}

	flag.Usage = func() {
		fmt.Printf("%s [options] [min] [max]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Int64Var(&c.Seed, "seed", c.Seed, "Generator seed; 0 picks one from the clock.")
	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	// Unparsable lengths keep their defaults.
	if n, err := strconv.Atoi(flag.Arg(0)); err == nil {
		c.Min = n
	}
	if n, err := strconv.Atoi(flag.Arg(1)); err == nil {
		c.Max = n
	}
	return &c
}
