package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Gap marks a child position without a node.
const Gap = "·"

// Options tunes the output formats.
type Options struct {
	// NoColor disables ANSI colors in text output.
	NoColor bool
	// Title is used by the HTML chart.
	Title string
}

// Text writes one table row per level. Every node is printed as value:R or
// value:B, red nodes in red and black nodes in bold.
func Text[T any](w io.Writer, snap Snapshot[T], options Options) error {
	redColor := color.New(color.FgRed)
	blackColor := color.New(color.Bold)

	if options.NoColor {
		redColor.DisableColor()
		blackColor.DisableColor()
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Level", "Nodes"})

	for depth, level := range snap.Levels {
		labels := make([]string, 0, len(level))

		for _, node := range level {
			switch {
			case node == nil:
				labels = append(labels, Gap)
			case node.Color == "red":
				labels = append(labels, redColor.Sprintf("%v:R", node.Value))
			default:
				labels = append(labels, blackColor.Sprintf("%v:B", node.Value))
			}
		}

		tbl.AppendRow(table.Row{depth, strings.Join(labels, " ")})
	}

	tbl.AppendFooter(table.Row{"Size", snap.Size})

	if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
		return fmt.Errorf("write text: %w", err)
	}

	return nil
}
