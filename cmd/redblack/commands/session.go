package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/redblack/internal/config"
	"github.com/Sumatoshi-tech/redblack/internal/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/randseq"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
	"github.com/Sumatoshi-tech/redblack/pkg/render"
	"github.com/Sumatoshi-tech/redblack/pkg/version"
)

// loadConfig reads the configuration and applies the persistent flags.
// Command flags are applied by the caller before startSession validates.
func (globals *GlobalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(globals.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if globals.NoColor {
		cfg.Render.NoColor = true
	}

	if globals.LogFormat != "" {
		cfg.Logging.Format = globals.LogFormat
	}

	if globals.OTLPHeaders != "" {
		cfg.Observability.OTLPHeaders = observability.ParseOTLPHeaders(globals.OTLPHeaders)
	}

	switch {
	case globals.Quiet:
		cfg.Logging.Level = "error"
	case globals.Verbose:
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

// session carries what a command needs after setup.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	logger    *slog.Logger
	metrics   *observability.TreeMetrics
}

func startSession(
	cmd *cobra.Command, cfg *config.Config, mode observability.AppMode, readers ...sdkmetric.Reader,
) (*session, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Observability.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = cfg.Observability.OTLPHeaders
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.SampleRatio = cfg.Observability.SampleRatio
	obsCfg.MetricReaders = readers
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == config.LogFormatJSON
	obsCfg.LogOutput = cmd.ErrOrStderr()

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewTreeMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:       cfg,
		providers: providers,
		logger:    providers.Logger,
		metrics:   metrics,
	}, nil
}

func (s *session) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.providers.Tracer.Start(ctx, name)
}

func (s *session) close(ctx context.Context) {
	err := s.providers.Shutdown(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "observability shutdown", "error", err)
	}
}

// newTree creates an int tree reporting to the session metrics and counter.
func (s *session) newTree(counter *rbtree.CaseCounter) *rbtree.Tree[int] {
	return rbtree.NewOrdered[int](rbtree.WithObserver(rbtree.Multi{counter, s.metrics}))
}

// validateTree runs the invariant check and records it.
func (s *session) validateTree(ctx context.Context, tree *rbtree.Tree[int]) (rbtree.Stats, error) {
	stats, err := tree.Validate()
	s.metrics.RecordValidation(ctx, stats, err)

	if err != nil {
		return stats, fmt.Errorf("tree invariant violated: %w", err)
	}

	s.logger.DebugContext(ctx, "tree validated",
		"nodes", stats.Nodes, "height", stats.Height, "black_height", stats.BlackHeight)

	return stats, nil
}

// output opens the configured render destination. The command's stdout is
// used when no file is set.
func (s *session) output(cmd *cobra.Command) (io.WriteCloser, error) {
	if s.cfg.Render.Output == "" || s.cfg.Render.Output == "-" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}

	return render.Create(s.cfg.Render.Output)
}

// report returns where human-readable status lines go. They share stdout with
// text renders but move to stderr when stdout carries a machine format.
func (s *session) report(cmd *cobra.Command) io.Writer {
	if s.cfg.Render.Output != "" && s.cfg.Render.Output != "-" {
		return cmd.OutOrStdout()
	}

	if s.cfg.Render.Format == string(render.FormatText) {
		return cmd.OutOrStdout()
	}

	return cmd.ErrOrStderr()
}

func (s *session) renderTree(cmd *cobra.Command, tree *rbtree.Tree[int], title string) (err error) {
	format, err := render.ParseFormat(s.cfg.Render.Format)
	if err != nil {
		return err
	}

	out, err := s.output(cmd)
	if err != nil {
		return err
	}

	defer func() {
		closeErr := out.Close()
		if closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	return render.Write(out, format, render.Capture(tree), render.Options{
		NoColor: s.cfg.Render.NoColor,
		Title:   title,
	})
}

func (s *session) sequenceOptions() []randseq.Option {
	return []randseq.Option{
		randseq.WithRange(s.cfg.Sequence.Min, s.cfg.Sequence.Max),
		randseq.WithSeed(s.cfg.Sequence.Seed),
		randseq.WithPattern(randseq.Pattern(s.cfg.Sequence.Pattern)),
	}
}

func (s *session) painter(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if s.cfg.Render.NoColor {
		c.DisableColor()
	}

	return c
}

// formatVector prints values right-aligned in columns of width 3.
func formatVector(values []int) string {
	var sb strings.Builder

	for i, v := range values {
		if i > 0 {
			sb.WriteByte(' ')
		}

		fmt.Fprintf(&sb, "%3d", v)
	}

	return sb.String()
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
