package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/redblack/internal/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/render"
)

// ValidateCommand checks a JSON tree dump against the schema.
type ValidateCommand struct {
	globals *GlobalOptions
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(globals *GlobalOptions) *cobra.Command {
	vc := &ValidateCommand{globals: globals}

	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a JSON tree dump against the schema",
		Long: `Validate reads a dump written by "insert -f json" or "demo -f json" and
checks it against the embedded JSON schema and the level layout.

FILE may be "-" for stdin. Files ending in .lz4 are decompressed.`,
		Example: `  redblack demo -f json -o tree.json.lz4 && redblack validate tree.json.lz4
  redblack insert 1 2 3 -f json | redblack validate -`,
		Args: cobra.ExactArgs(1),
		RunE: vc.Run,
	}
}

// Run executes the validate command.
func (vc *ValidateCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := vc.globals.loadConfig()
	if err != nil {
		return err
	}

	sess, err := startSession(cmd, cfg, observability.ModeCLI)
	if err != nil {
		return err
	}

	defer sess.close(cmd.Context())

	ctx, span := sess.startSpan(cmd.Context(), "redblack.validate")
	defer span.End()

	path := args[0]

	data, err := readAll(path)
	if err != nil {
		return err
	}

	err = render.ValidateJSON(data)
	if err != nil {
		sess.painter(color.FgRed).Fprintf(cmd.OutOrStdout(), "✗ %s: invalid\n", path)

		return err
	}

	sess.painter(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s: valid\n", path)
	sess.logger.DebugContext(ctx, "dump validated", "path", path, "bytes", len(data))

	return nil
}

func readAll(path string) (data []byte, err error) {
	in, err := render.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() {
		closeErr := in.Close()
		if closeErr != nil && err == nil {
			err = fmt.Errorf("close input: %w", closeErr)
		}
	}()

	data, err = io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}
