package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/redblack/internal/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

// ErrInvalidValue is returned when an argument is not an integer.
var ErrInvalidValue = errors.New("invalid value")

// InsertCommand inserts the given values and renders the result.
type InsertCommand struct {
	globals *GlobalOptions
	render  renderFlags
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(globals *GlobalOptions) *cobra.Command {
	ic := &InsertCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "insert VALUES...",
		Short: "Insert values in order and render the tree",
		Example: `  redblack insert 10 20 30
  redblack insert 5 3 8 -f json -o tree.json.lz4`,
		Args: cobra.MinimumNArgs(1),
		RunE: ic.Run,
	}

	ic.render.register(cobraCmd)

	return cobraCmd
}

// Run executes the insert command.
func (ic *InsertCommand) Run(cmd *cobra.Command, args []string) error {
	values, err := parseValues(args)
	if err != nil {
		return err
	}

	cfg, err := ic.globals.loadConfig()
	if err != nil {
		return err
	}

	ic.render.apply(cmd, cfg)

	sess, err := startSession(cmd, cfg, observability.ModeCLI)
	if err != nil {
		return err
	}

	defer sess.close(cmd.Context())

	ctx, span := sess.startSpan(cmd.Context(), "redblack.insert")
	defer span.End()

	counter := rbtree.NewCaseCounter()
	tree := sess.newTree(counter)

	start := time.Now()

	for _, v := range values {
		if !tree.Insert(v) {
			sess.logger.DebugContext(ctx, "value updated", "value", v)
		}
	}

	sess.metrics.RecordBatch(ctx, time.Since(start))

	if _, err = sess.validateTree(ctx, tree); err != nil {
		return err
	}

	if counter.Updated > 0 {
		fmt.Fprintf(sess.report(cmd), "%d inserted, %d updated\n", counter.Inserted, counter.Updated)
	}

	return sess.renderTree(cmd, tree, "")
}

func parseValues(args []string) ([]int, error) {
	values := make([]int, 0, len(args))

	for _, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidValue, arg)
		}

		values = append(values, v)
	}

	return values, nil
}
