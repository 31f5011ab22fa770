package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
	"github.com/jorgebotas/gocyto/pkg/style"
	"github.com/jorgebotas/gocyto/pkg/table"
)

// Load reads and joins the input tables.
func (r *Runner) Load(opts table.LoadOptions) (*table.Network, *table.LoadReport, error) {
	return table.Load(opts)
}

// Create pushes a loaded network and returns its SUID.
func (r *Runner) Create(ctx context.Context, name, collection string, net *table.Network) (int64, error) {
	data := cyrest.NetworkData{
		Nodes: net.Nodes.Records(),
		Edges: make([]cyrest.EdgeData, len(net.Edges)),
	}
	for i, e := range net.Edges {
		data.Edges[i] = cyrest.EdgeData{Source: e.Source, Target: e.Target, Interaction: e.Interaction}
	}
	return r.API.CreateNetwork(ctx, name, collection, data)
}

// Style creates and applies the network style, then colors nodes and draws
// attribute charts. It returns the styler even on error so warnings can be
// reported.
func (r *Runner) Style(ctx context.Context, suid int64, net *table.Network, opts Options, logger *log.Logger) (*style.Styler, map[string]string, error) {
	sopts := []style.Option{
		style.WithNetwork(suid),
		style.WithNodes(net.Nodes),
		style.WithLogger(logger),
		style.WithWarningSink(opts.Warn),
	}
	if opts.StyleConfig != nil {
		sopts = append(sopts, style.WithConfig(*opts.StyleConfig))
	}
	styler, err := style.New(ctx, r.API, StyleName(opts.Name), sopts...)
	if err != nil {
		return nil, nil, err
	}
	if err := styler.Apply(ctx, suid); err != nil {
		return styler, nil, err
	}

	var colors map[string]string
	if !opts.NoColor {
		if _, ok := net.Nodes.Column(opts.ColorColumn); ok {
			var explicit map[string]string
			colorType := opts.ColorType
			if opts.ColorColumn == table.ClusterColumn && len(net.ClusterColors) > 0 {
				explicit = net.ClusterColors
				if colorType == "" {
					colorType = "d"
				}
			}
			if colors, err = styler.NodeColor(ctx, opts.ColorColumn, colorType, explicit); err != nil {
				return styler, nil, err
			}
		} else {
			logger.Debug("color column not in node table, skipping node colors", "column", opts.ColorColumn)
		}
	}

	switch {
	case opts.NoPie:
	case len(net.AttributeColumns) == 0:
		logger.Debug("no attribute columns, skipping ring chart")
	default:
		if err := styler.NodePieChart(ctx, net.AttributeColumns, opts.Chart); err != nil {
			return styler, colors, err
		}
	}

	if opts.Arrows {
		if err := styler.EdgeArrows(ctx, opts.ArrowColumn, nil); err != nil {
			return styler, colors, err
		}
	}
	return styler, colors, nil
}
