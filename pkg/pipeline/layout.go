package pipeline

import (
	"context"
	"fmt"

	"github.com/jorgebotas/gocyto/pkg/config"
	"github.com/jorgebotas/gocyto/pkg/cyrest"
	"github.com/jorgebotas/gocyto/pkg/errors"
	"github.com/jorgebotas/gocyto/pkg/geometry"
	"github.com/jorgebotas/gocyto/pkg/table"
)

// LayoutParameters converts layout settings to attributes-layout parameters.
func LayoutParameters(l config.Layout) []cyrest.LayoutParameter {
	return []cyrest.LayoutParameter{
		{Name: "spacingx", Value: l.SpacingX},
		{Name: "spacingy", Value: l.SpacingY},
		{Name: "maxwidth", Value: l.MaxWidth},
		{Name: "minrad", Value: l.MinRadius},
		{Name: "radmult", Value: l.RadiusMultiplier},
	}
}

// Layout groups the nodes of a network by column with the attributes
// layout.
func (r *Runner) Layout(ctx context.Context, suid int64, column string, params config.Layout) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := r.API.SetLayoutParameters(ctx, cyrest.AttributesLayout, LayoutParameters(params)); err != nil {
		return err
	}
	return r.API.LayoutByAttribute(ctx, suid, column)
}

// Annotate adds one label per cluster of nodes, placed from the current
// node positions. Run [Runner.Layout] first.
func (r *Runner) Annotate(ctx context.Context, suid int64, nodes *table.NodeTable, column string, opts AnnotateOptions) ([]geometry.Label, error) {
	opts.SetDefaults()
	if _, ok := nodes.Column(column); !ok {
		return nil, errors.New(errors.ErrCodeInvalidColumn, "node table has no %q column", column)
	}

	view, err := r.API.FirstView(ctx, suid)
	if err != nil {
		return nil, err
	}
	raw, err := r.API.NodePositions(ctx, suid, view)
	if err != nil {
		return nil, err
	}
	positions := make(map[string]geometry.Point, len(raw))
	for name, p := range raw {
		positions[name] = geometry.Point(p)
	}

	labels := geometry.ClusterLabels(nodes, positions, geometry.LabelOptions{
		Column: column,
		Width:  opts.Size,
		Height: opts.Size,
	})
	for _, l := range labels {
		err := r.API.AddBoundedText(ctx, cyrest.Annotation{
			View:       view,
			Text:       l.Cluster,
			X:          l.X,
			Y:          l.Y,
			Width:      l.Width,
			Height:     l.Height,
			FontSize:   opts.FontSize,
			FontFamily: opts.FontFamily,
			ShapeType:  "ELLIPSE",
			FillColor:  "#FFFFFF",
			Z:          1,
			Name:       fmt.Sprintf("%s %s", column, l.Cluster),
		})
		if err != nil {
			return nil, err
		}
	}
	return labels, nil
}

// AnnotateRemote lays out an existing network by column and labels its
// clusters, reading node names and cluster values from the server.
func (r *Runner) AnnotateRemote(ctx context.Context, suid int64, column string, params config.Layout, opts AnnotateOptions) ([]geometry.Label, error) {
	nodes, err := r.remoteNodes(ctx, suid, column)
	if err != nil {
		return nil, err
	}
	if err := r.Layout(ctx, suid, column, params); err != nil {
		return nil, err
	}
	return r.Annotate(ctx, suid, nodes, column, opts)
}

// remoteNodes rebuilds a node table with one column from the server.
func (r *Runner) remoteNodes(ctx context.Context, suid int64, column string) (*table.NodeTable, error) {
	names, err := r.API.NodeColumnValues(ctx, suid, "name")
	if err != nil {
		return nil, err
	}
	values, err := r.API.NodeColumnValues(ctx, suid, column)
	if err != nil {
		return nil, err
	}
	if len(values) != len(names) {
		return nil, errors.New(errors.ErrCodeRemoteAPI, "column %q has %d values for %d nodes", column, len(values), len(names))
	}

	ids := make([]string, len(names))
	for i, n := range names {
		ids[i] = fmt.Sprint(n)
	}
	nodes, err := table.NewNodeTable(ids)
	if err != nil {
		return nil, err
	}
	col := &table.Column{Name: column, Type: table.String, Values: make([]string, len(values))}
	for i, v := range values {
		if v != nil {
			col.Values[i] = fmt.Sprint(v)
		}
	}
	if err := nodes.AddColumn(col); err != nil {
		return nil, err
	}
	return nodes, nil
}
