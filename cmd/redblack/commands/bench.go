package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Sumatoshi-tech/redblack/internal/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/randseq"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

const defaultBenchRounds = 5

// ErrInvalidRounds is returned when --rounds is not positive.
var ErrInvalidRounds = errors.New("rounds must be positive")

// BenchCommand measures insert throughput.
type BenchCommand struct {
	globals     *GlobalOptions
	sequence    sequenceFlags
	metricsAddr string
	rounds      int
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(globals *GlobalOptions) *cobra.Command {
	bc := &BenchCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure insert throughput",
		Long: `Bench inserts a generated sequence into a fresh tree once per round and
reports the elapsed time, the throughput and the fixup cases taken.

With --metrics-addr the Prometheus /metrics endpoint stays up until the
process is interrupted.`,
		Example: `  redblack bench -n 100000 --rounds 10
  redblack bench -n 1000000 --pattern ascending --metrics-addr :9464`,
		Args: cobra.NoArgs,
		RunE: bc.Run,
	}

	bc.sequence.register(cobraCmd)
	cobraCmd.Flags().IntVar(&bc.rounds, "rounds", defaultBenchRounds, "number of trees to build")
	cobraCmd.Flags().StringVar(&bc.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cobraCmd
}

// benchResult aggregates all rounds.
type benchResult struct {
	counter *rbtree.CaseCounter
	stats   rbtree.Stats
	elapsed time.Duration
	inserts int
	rounds  int
}

// Run executes the bench command.
func (bc *BenchCommand) Run(cmd *cobra.Command, _ []string) error {
	if bc.rounds <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRounds, bc.rounds)
	}

	cfg, err := bc.globals.loadConfig()
	if err != nil {
		return err
	}

	bc.sequence.apply(cmd, cfg)

	if cmd.Flags().Changed("metrics-addr") {
		cfg.Observability.MetricsAddr = bc.metricsAddr
	}

	var (
		prom    *observability.Prometheus
		readers []sdkmetric.Reader
	)

	if cfg.Observability.MetricsAddr != "" {
		prom, err = observability.NewPrometheus()
		if err != nil {
			return err
		}

		readers = append(readers, prom.Reader)
	}

	sess, err := startSession(cmd, cfg, observability.ModeBench, readers...)
	if err != nil {
		return err
	}

	defer sess.close(cmd.Context())

	result, err := bc.runRounds(cmd.Context(), sess)
	if err != nil {
		return err
	}

	sess.printBench(cmd, result)

	if prom == nil {
		return nil
	}

	return serveMetrics(cmd.Context(), sess, prom)
}

func (bc *BenchCommand) runRounds(ctx context.Context, sess *session) (benchResult, error) {
	ctx, span := sess.startSpan(ctx, "redblack.bench")
	defer span.End()

	result := benchResult{counter: rbtree.NewCaseCounter(), rounds: bc.rounds}
	seq := sess.cfg.Sequence

	for round := range bc.rounds {
		opts := sess.sequenceOptions()
		if seq.Seed != 0 {
			opts = append(opts, randseq.WithSeed(seq.Seed+uint64(round)))
		}

		values, err := randseq.Generate(seq.Length, opts...)
		if err != nil {
			return result, fmt.Errorf("generate sequence: %w", err)
		}

		_, roundSpan := sess.startSpan(ctx, "redblack.bench.round")
		roundSpan.SetAttributes(attribute.Int("round", round))

		tree := sess.newTree(result.counter)
		start := time.Now()

		for _, v := range values {
			tree.Insert(v)
		}

		elapsed := time.Since(start)

		roundSpan.End()
		sess.metrics.RecordBatch(ctx, elapsed)

		stats, err := sess.validateTree(ctx, tree)
		if err != nil {
			return result, err
		}

		result.elapsed += elapsed
		result.inserts += len(values)
		result.stats = stats

		sess.logger.DebugContext(ctx, "round complete", "round", round, "elapsed", elapsed, "nodes", stats.Nodes)
	}

	return result, nil
}

func (s *session) printBench(cmd *cobra.Command, result benchResult) {
	rate := 0.0
	if result.elapsed > 0 {
		rate = float64(result.inserts) / result.elapsed.Seconds()
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Bench")
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Rounds", result.rounds},
		{"Values per round", humanize.Comma(int64(s.cfg.Sequence.Length))},
		{"Inserts", humanize.Comma(int64(result.inserts))},
		{"Elapsed", result.elapsed.Round(time.Microsecond)},
		{"Throughput", humanize.SIWithDigits(rate, 2, "ins/s")},
		{"Last tree height", result.stats.Height},
		{"Last black height", result.stats.BlackHeight},
	})
	tw.AppendSeparator()

	for _, fixupCase := range rbtree.FixupCases {
		tw.AppendRow(table.Row{"Fixup " + fixupCase.String(), humanize.Comma(int64(result.counter.Cases[fixupCase]))})
	}

	tw.Render()
}

func serveMetrics(ctx context.Context, sess *session, prom *observability.Prometheus) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", sess.cfg.Observability.MetricsAddr)
	if err != nil {
		return fmt.Errorf("listen metrics: %w", err)
	}

	return prom.Serve(ctx, listener, sess.logger)
}
