package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Sumatoshi-tech/redblack/internal/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/randseq"
	"github.com/Sumatoshi-tech/redblack/pkg/sorting"
)

// SortCommand sorts a generated sequence.
type SortCommand struct {
	globals   *GlobalOptions
	sequence  sequenceFlags
	algorithm string
	trace     bool
}

// NewSortCommand creates the sort command.
func NewSortCommand(globals *GlobalOptions) *cobra.Command {
	sc := &SortCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort a generated sequence with heap or quick sort",
		Example: `  redblack sort -a quick -n 10 --trace
  redblack sort --seed 42`,
		Args: cobra.NoArgs,
		RunE: sc.Run,
	}

	sc.sequence.register(cobraCmd)
	cobraCmd.Flags().StringVarP(&sc.algorithm, "algorithm", "a", "", "sort algorithm: heap or quick")
	cobraCmd.Flags().BoolVar(&sc.trace, "trace", false, "print the vector after every step")

	return cobraCmd
}

// Run executes the sort command.
func (sc *SortCommand) Run(cmd *cobra.Command, _ []string) error {
	cfg, err := sc.globals.loadConfig()
	if err != nil {
		return err
	}

	sc.sequence.apply(cmd, cfg)

	if cmd.Flags().Changed("algorithm") {
		cfg.Sort.Algorithm = sc.algorithm
	}

	if cmd.Flags().Changed("trace") {
		cfg.Sort.Trace = sc.trace
	}

	sess, err := startSession(cmd, cfg, observability.ModeCLI)
	if err != nil {
		return err
	}

	defer sess.close(cmd.Context())

	ctx, span := sess.startSpan(cmd.Context(), "redblack.sort")
	defer span.End()

	sortFunc, err := sorting.ByName[int](cfg.Sort.Algorithm)
	if err != nil {
		return err
	}

	values, err := randseq.Generate(cfg.Sequence.Length, sess.sequenceOptions()...)
	if err != nil {
		return fmt.Errorf("generate sequence: %w", err)
	}

	span.SetAttributes(
		attribute.String("sort.algorithm", cfg.Sort.Algorithm),
		attribute.Int("sequence.length", len(values)),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "input:     %s\n", formatVector(values))

	steps := 0

	var opts []sorting.Option[int]
	if cfg.Sort.Trace {
		phase := sess.painter(color.FgCyan)
		opts = append(opts, sorting.WithTrace(func(step sorting.Step, a []int) {
			steps++

			fmt.Fprintf(out, "%s %s\n", phase.Sprintf("%-9s", step.Phase), formatVector(a))
		}))
	}

	sortFunc(values, opts...)

	fmt.Fprintf(out, "output:    %s\n", formatVector(values))
	sess.logger.DebugContext(ctx, "sort complete", "algorithm", cfg.Sort.Algorithm, "steps", steps)

	return nil
}
