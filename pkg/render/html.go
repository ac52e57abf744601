package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	// DefaultTitle is used when Options.Title is empty.
	DefaultTitle = "Red-black tree"

	chartWidth  = "100%"
	chartHeight = "720px"
)

// HTML writes a self-contained page with an interactive tree chart.
func HTML[T any](w io.Writer, snap Snapshot[T], options Options) error {
	title := options.Title
	if title == "" {
		title = DefaultTitle
	}

	chart := charts.NewTree()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d nodes, %d levels", snap.Size, snap.Height()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	var data []opts.TreeData
	if root := snap.link(); root != nil {
		data = append(data, *chartNode(root))
	}

	chart.AddSeries("tree", data, charts.WithTreeOpts(opts.TreeChart{
		Layout:           "orthogonal",
		Orient:           "TB",
		InitialTreeDepth: -1,
		Label:            &opts.Label{Show: opts.Bool(true), Position: "top"},
	}))

	if err := chart.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	return nil
}

func chartNode[T any](tn *treeNode[T]) *opts.TreeData {
	data := &opts.TreeData{Name: fmt.Sprintf("%v (%s)", tn.node.Value, tn.node.Color)}

	for _, child := range []*treeNode[T]{tn.left, tn.right} {
		if child != nil {
			data.Children = append(data.Children, chartNode(child))
		}
	}

	return data
}
