package main

import (
	"fmt"

	"github.com/mrhapile/brainrot-fuzz/gen"
)

func main() {
	config := parseArgs()
	fmt.Println(gen.NewSeeded(config.Seed).Generate(config.Min, config.Max))
}
