package style

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
	"github.com/jorgebotas/gocyto/pkg/errors"
)

// ChartKind selects the custom graphic drawn on nodes.
type ChartKind string

const (
	Ring ChartKind = "ring"
	Pie  ChartKind = "pie"
)

// DefaultHole is the default ring chart hole size.
const DefaultHole = 0.7

// ChartOptions configures [Styler.NodePieChart]. Zero values select the
// defaults.
type ChartOptions struct {
	Kind   ChartKind // Ring by default
	Slot   int       // custom graphics slot 1..9, default 1
	Hole   float64   // ring hole size in (0, 1], default 0.7
	Size   float64   // graphic size, default NODE_WIDTH / Hole + 10
	Colors []string  // slice colors, default palette
}

// SetDefaults fills zero fields.
func (o *ChartOptions) SetDefaults() {
	if o.Kind == "" {
		o.Kind = Ring
	}
	if o.Slot == 0 {
		o.Slot = 1
	}
	if o.Hole == 0 {
		o.Hole = DefaultHole
	}
}

// Validate checks the options after SetDefaults.
func (o *ChartOptions) Validate(columns int) error {
	if o.Kind != Ring && o.Kind != Pie {
		return errors.New(errors.ErrCodeInvalidInput, "chart kind %q: want ring or pie", o.Kind)
	}
	if o.Slot < 1 || o.Slot > 9 {
		return errors.New(errors.ErrCodeInvalidInput, "custom graphics slot %d out of range 1..9", o.Slot)
	}
	if o.Hole <= 0 || o.Hole > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "hole size %g out of range (0, 1]", o.Hole)
	}
	if o.Size < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chart size %g is negative", o.Size)
	}
	if len(o.Colors) > 0 && len(o.Colors) != columns {
		return errors.New(errors.ErrCodeInvalidInput, "%d colors for %d columns", len(o.Colors), columns)
	}
	for _, c := range o.Colors {
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	return nil
}

type chartSpec struct {
	DataColumns []string `json:"cy_dataColumns"`
	Colors      []string `json:"cy_colors"`
	StartAngle  float64  `json:"cy_startAngle"`
	HoleSize    *float64 `json:"cy_holeSize,omitempty"`
}

// chartValue encodes a chart as the NODE_CUSTOMGRAPHICS_n value Cytoscape
// expects, for example org.cytoscape.RingChart:{"cy_dataColumns":[...]}.
func chartValue(columns []string, o ChartOptions) (string, error) {
	spec := chartSpec{DataColumns: columns, Colors: o.Colors}
	if len(spec.Colors) == 0 {
		spec.Colors = PaletteColors(len(columns))
	}
	factory := "org.cytoscape.PieChart"
	if o.Kind == Ring {
		factory = "org.cytoscape.RingChart"
		hole := o.Hole
		spec.HoleSize = &hole
	}
	data, err := json.Marshal(spec)
	if err != nil {
		return "", err
	}
	return factory + ":" + string(data), nil
}

// NodePieChart draws a ring (or pie) chart of columns on every node. Columns
// that are unknown or not numeric produce a warning.
func (s *Styler) NodePieChart(ctx context.Context, columns []string, opts ChartOptions) error {
	if len(columns) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chart needs at least one column")
	}
	opts.SetDefaults()
	if err := opts.Validate(len(columns)); err != nil {
		return err
	}

	for _, col := range columns {
		t, err := s.columnType(ctx, col)
		if err != nil {
			return err
		}
		switch {
		case t == "" && (s.nodes != nil || s.network != 0):
			s.warn("chart column %q not found in the node table", col)
		case t != "" && !isNumericType(t):
			s.warn("chart column %q is %s, not numeric", col, t)
		}
	}

	value, err := chartValue(columns, opts)
	if err != nil {
		return err
	}
	size := opts.Size
	if size == 0 {
		if opts.Kind == Ring {
			size = s.config.nodeWidth()/opts.Hole + 10
		} else {
			size = s.config.nodeWidth() + 10
		}
	}

	defaults := []cyrest.VisualProperty{
		{VisualProperty: fmt.Sprintf("NODE_CUSTOMGRAPHICS_%d", opts.Slot), Value: value},
		{VisualProperty: fmt.Sprintf("NODE_CUSTOMGRAPHICS_SIZE_%d", opts.Slot), Value: size},
	}
	if err := s.api.UpdateDefaults(ctx, s.name, defaults); err != nil {
		return err
	}
	s.logger.Info("node chart", "style", s.name, "kind", opts.Kind, "columns", len(columns), "size", size)
	return nil
}
