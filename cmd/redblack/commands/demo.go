package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Sumatoshi-tech/redblack/internal/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/randseq"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

// DemoCommand inserts a generated sequence and summarizes the fixup work.
type DemoCommand struct {
	globals  *GlobalOptions
	sequence sequenceFlags
	render   renderFlags
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(globals *GlobalOptions) *cobra.Command {
	dc := &DemoCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "demo",
		Short: "Insert a generated sequence and summarize the fixup work",
		Example: `  redblack demo
  redblack demo -n 15 --seed 7 --pattern ascending
  redblack demo -n 200 -f html -o tree.html`,
		Args: cobra.NoArgs,
		RunE: dc.Run,
	}

	dc.sequence.register(cobraCmd)
	dc.render.register(cobraCmd)

	return cobraCmd
}

// Run executes the demo command.
func (dc *DemoCommand) Run(cmd *cobra.Command, _ []string) error {
	cfg, err := dc.globals.loadConfig()
	if err != nil {
		return err
	}

	dc.sequence.apply(cmd, cfg)
	dc.render.apply(cmd, cfg)

	sess, err := startSession(cmd, cfg, observability.ModeCLI)
	if err != nil {
		return err
	}

	defer sess.close(cmd.Context())

	ctx, span := sess.startSpan(cmd.Context(), "redblack.demo")
	defer span.End()

	values, err := randseq.Generate(cfg.Sequence.Length, sess.sequenceOptions()...)
	if err != nil {
		return fmt.Errorf("generate sequence: %w", err)
	}

	span.SetAttributes(
		attribute.Int("sequence.length", len(values)),
		attribute.String("sequence.pattern", cfg.Sequence.Pattern),
	)

	report := sess.report(cmd)
	fmt.Fprintf(report, "sequence (%s): %s\n", cfg.Sequence.Pattern, formatVector(values))

	counter := rbtree.NewCaseCounter()
	tree := sess.newTree(counter)

	start := time.Now()

	for _, v := range values {
		tree.Insert(v)
	}

	elapsed := time.Since(start)
	sess.metrics.RecordBatch(ctx, elapsed)

	stats, err := sess.validateTree(ctx, tree)
	if err != nil {
		return err
	}

	err = sess.renderTree(cmd, tree, fmt.Sprintf("Red-black tree of %d values", stats.Nodes))
	if err != nil {
		return err
	}

	sess.printSummary(report, stats, counter)
	sess.logger.InfoContext(ctx, "demo complete", "nodes", stats.Nodes, "elapsed", elapsed)

	return nil
}

func (s *session) printSummary(w io.Writer, stats rbtree.Stats, counter *rbtree.CaseCounter) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(s.painter(color.Bold).Sprint("Summary"))
	tw.AppendRows([]table.Row{
		{"Nodes", humanize.Comma(int64(stats.Nodes))},
		{"Height", stats.Height},
		{"Black height", stats.BlackHeight},
		{"Updated", humanize.Comma(int64(counter.Updated))},
	})
	tw.AppendSeparator()

	for _, fixupCase := range rbtree.FixupCases {
		tw.AppendRow(table.Row{"Fixup " + fixupCase.String(), humanize.Comma(int64(counter.Cases[fixupCase]))})
	}

	tw.Render()
}
