package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mrhapile/brainrot-fuzz/fuzz"
)

// Config defines program configuration.
type Config struct {
	fuzz.Config
	ConfigFile string // Optional YAML file providing the base configuration.
	LogLevel   string // btclog level name.
	Quiet      bool   // Suppress the progress line?
}

// parseArgs parses command line arguments as applicable.
//
// Settings are taken from the defaults, then from the -config file if one is
// given, then from any flag set explicitly on the command line.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	def := fuzz.DefaultConfig()

	flag.Usage = func() {
		fmt.Printf("%s [options] <subject executable>\n", os.Args[0])
		flag.PrintDefaults()
	}

	var c Config
	flag.StringVar(&c.ConfigFile, "config", "", "YAML configuration file.")
	flag.StringVar(&c.LogLevel, "loglevel", "info", "Log level: trace, debug, info, warn, error, critical or off.")
	flag.BoolVar(&c.Quiet, "quiet", false, "Do not print one progress character per iteration.")

	args := flag.String("args", strings.Join(def.SubjectArgs, ","), "Comma-separated arguments passed to the subject.")
	budget := flag.Int64("budget", def.StepBudget, "Reference interpreter step budget.")
	minLen := flag.Int("min", def.MinLength, "Minimum generated program length.")
	maxLen := flag.Int("max", def.MaxLength, "Length at which open loops are force-closed.")
	deadline := flag.Duration("deadline", def.Deadline, "Wall clock limit for one subject run.")
	crashCode := flag.Int("crash-code", def.CrashCode, "Exit code the subject uses for a panic.")
	oorCode := flag.Int("oor-code", def.OutOfRangeCode, "Exit code agreeing with a reference out of range result; 0 disables.")
	persistTimeouts := flag.Bool("persist-timeouts", def.PersistTimeouts, "Persist wall clock timeouts as artifacts.")
	compare := flag.Bool("compare", def.CompareOutput, "Compare subject stdout against the reference output.")
	iterations := flag.Int("n", def.MaxIterations, "Stop after this many iterations; 0 runs until interrupted.")
	stop := flag.Bool("stop", def.StopOnAnomaly, "Stop after the first persisted artifact.")
	out := flag.String("out", def.ArtifactDir, "Directory receiving artifacts.")
	seed := flag.Int64("seed", def.Seed, "Generator seed; 0 picks one from the clock.")
	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	c.Config = def
	if c.ConfigFile != "" {
		fc, err := fuzz.LoadConfig(c.ConfigFile)
		if err != nil {
			fatal("invalid configuration", err)
		}
		c.Config = fc
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "args":
			c.SubjectArgs = filteredSplit(*args, ",")
		case "budget":
			c.StepBudget = *budget
		case "min":
			c.MinLength = *minLen
		case "max":
			c.MaxLength = *maxLen
		case "deadline":
			c.Deadline = *deadline
		case "crash-code":
			c.CrashCode = *crashCode
		case "oor-code":
			c.OutOfRangeCode = *oorCode
		case "persist-timeouts":
			c.PersistTimeouts = *persistTimeouts
		case "compare":
			c.CompareOutput = *compare
		case "n":
			c.MaxIterations = *iterations
		case "stop":
			c.StopOnAnomaly = *stop
		case "out":
			c.ArtifactDir = *out
		case "seed":
			c.Seed = *seed
		}
	})

	if flag.NArg() > 0 {
		c.Subject = flag.Arg(0)
	}

	if c.Subject == "" {
		flag.Usage()
		os.Exit(1)
	}

	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}

	if err := c.Validate(); err != nil {
		fatal("invalid configuration", err)
	}
	return &c
}

// filteredSplit splits value by sep and returns the resulting list, minus empty entries.
func filteredSplit(value, sep string) []string {
	out := strings.Split(value, sep)
	for i := 0; i < len(out); i++ {
		out[i] = strings.TrimSpace(out[i])
		if len(out[i]) == 0 {
			copy(out[i:], out[i+1:])
			out = out[:len(out)-1]
			i--
		}
	}
	return out
}
