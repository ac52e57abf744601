package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/redblack/internal/config"
)

// sequenceFlags override the sequence section of the configuration.
type sequenceFlags struct {
	pattern string
	length  int
	low     int
	high    int
	seed    uint64
}

func (f *sequenceFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&f.length, "length", "n", 0, "number of values")
	flags.IntVar(&f.low, "min", 0, "smallest value")
	flags.IntVar(&f.high, "max", 0, "largest value")
	flags.Uint64Var(&f.seed, "seed", 0, "random seed, 0 picks one")
	flags.StringVar(&f.pattern, "pattern", "", "value order: random, ascending, descending")
}

func (f *sequenceFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("length") {
		cfg.Sequence.Length = f.length
	}

	if flags.Changed("min") {
		cfg.Sequence.Min = f.low
	}

	if flags.Changed("max") {
		cfg.Sequence.Max = f.high
	}

	if flags.Changed("seed") {
		cfg.Sequence.Seed = f.seed
	}

	if flags.Changed("pattern") {
		cfg.Sequence.Pattern = f.pattern
	}
}

// renderFlags override the render section of the configuration.
type renderFlags struct {
	format string
	output string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.format, "format", "f", "", "output format: text, json, yaml, html")
	flags.StringVarP(&f.output, "output", "o", "", "output file, .lz4 suffix compresses (default: stdout)")
}

func (f *renderFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Render.Format = f.format
	}

	if flags.Changed("output") {
		cfg.Render.Output = f.output
	}
}
