package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/mrhapile/brainrot-fuzz/arch"
	"github.com/mrhapile/brainrot-fuzz/fuzz"
	"github.com/mrhapile/brainrot-fuzz/interp"
)

func main() {
	config := parseArgs()

	data, err := os.ReadFile(config.Source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Artifacts carry their description in a leading comment block.
	desc, program, err := fuzz.ParseArtifact(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := arch.Validate(program); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.Source, err)
		os.Exit(1)
	}

	if config.Debug && desc != "" {
		fmt.Fprintf(os.Stderr, "%s\n", desc)
	}

	stdout := bufio.NewWriter(os.Stdout)
	result := interp.Execute(program, config.Budget, func(b byte) {
		stdout.WriteByte(b)
	}, stdinReader(os.Stdin, stdout))

	fmt.Fprintf(stdout, "Result: %s\n", result)
	stdout.Flush()

	if config.Debug {
		fmt.Fprint(os.Stderr, spew.Sdump(result))
	}
}

// stdinReader returns an input callback reading r one byte at a time.
// Pending output is flushed before each read. Zero is returned once r is
// exhausted.
func stdinReader(r io.Reader, pending *bufio.Writer) interp.InputFunc {
	br := bufio.NewReader(r)
	return func() byte {
		pending.Flush()
		b, err := br.ReadByte()
		if err != nil {
			return 0
		}
		return b
	}
}
