package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jorgebotas/gocyto/pkg/errors"
	"github.com/jorgebotas/gocyto/pkg/pipeline"
	"github.com/jorgebotas/gocyto/pkg/style"
)

// styleFlags are shared by every style subcommand.
type styleFlags struct {
	network string
	style   string
}

func (c *CLI) styleCommand() *cobra.Command {
	var flags styleFlags

	cmd := &cobra.Command{
		Use:   "style",
		Short: "Add mappings to the style of an existing network",
		Long: `Add a single mapping to an existing visual style and apply it to a network.

The style defaults to "<network name> style", the style "gocyto network"
creates. Use --style to edit another one.`,
	}

	cmd.PersistentFlags().StringVar(&flags.network, "network", "", "network name or SUID")
	cmd.PersistentFlags().StringVar(&flags.style, "style", "", "style name (default: \"<network> style\")")

	cmd.AddCommand(c.styleColorCommand(&flags))
	cmd.AddCommand(c.styleShapeCommand(&flags))
	cmd.AddCommand(c.stylePieCommand(&flags))
	cmd.AddCommand(c.styleArrowsCommand(&flags))
	return cmd
}

// withStyler connects, attaches to the style and applies it once fn has
// added its mapping.
func (c *CLI) withStyler(ctx context.Context, flags *styleFlags, fn func(*style.Styler, int64) error) error {
	r, err := c.connect(ctx, flags.network)
	if err != nil {
		return err
	}
	defer r.close()

	name := flags.style
	if name == "" {
		if name, err = networkName(ctx, r); err != nil {
			return err
		}
		name = pipeline.StyleName(name)
	}

	s, err := style.Attach(r.client, name,
		style.WithNetwork(r.suid),
		style.WithLogger(c.Logger),
		style.WithWarningSink(warningSink),
	)
	if err != nil {
		return err
	}
	if err := fn(s, r.suid); err != nil {
		return err
	}
	if err := s.Apply(ctx, r.suid); err != nil {
		return err
	}
	printSuccess("Updated %s on network %d", StyleHighlight.Render(name), r.suid)
	return nil
}

// networkName looks up the name of the connected network.
func networkName(ctx context.Context, r *remote) (string, error) {
	networks, err := r.client.Networks(ctx)
	if err != nil {
		return "", err
	}
	for _, n := range networks {
		if n.SUID == r.suid {
			return n.Name, nil
		}
	}
	return "", errors.New(errors.ErrCodeNotFound, "network %d not found", r.suid)
}

func (c *CLI) styleColorCommand(flags *styleFlags) *cobra.Command {
	var (
		column  string
		mtype   string
		mapping map[string]string
	)

	cmd := &cobra.Command{
		Use:   "color",
		Short: "Color nodes by a column",
		Long: `Color nodes by a node column.

The mapping type is c (continuous), d (discrete) or p (passthrough). When
omitted it is inferred from the column type. Without --map colors are picked
from the palette for every value of the column.`,
		Example: `  gocyto style color --network ppi --column cluster --type d
  gocyto style color --network ppi --column score --map 0=#2166AC,1=#B2182B`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateColorType(mtype); err != nil {
				return err
			}
			ctx := cmd.Context()
			return c.withStyler(ctx, flags, func(s *style.Styler, _ int64) error {
				used, err := s.NodeColor(ctx, column, mtype, mapping)
				if err != nil {
					return err
				}
				printDetail("%d color(s) mapped on %s", len(used), column)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&column, "column", pipeline.DefaultColorColumn, "node column")
	cmd.Flags().StringVar(&mtype, "type", "", "mapping type: c, d or p (default: inferred)")
	cmd.Flags().StringToStringVar(&mapping, "map", nil, "value=color pairs")
	return cmd
}

func (c *CLI) styleShapeCommand(flags *styleFlags) *cobra.Command {
	var (
		column  string
		mapping map[string]string
	)

	cmd := &cobra.Command{
		Use:   "shape",
		Short: "Map column values to node shapes",
		Long: `Map node column values to node shapes.

Shapes Cytoscape does not know are reported but still sent. Run
"gocyto shapes" to list the supported ones.`,
		Example: `  gocyto style shape --network ppi --column type --map kinase=DIAMOND,receptor=TRIANGLE`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(mapping) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--map is required")
			}
			ctx := cmd.Context()
			return c.withStyler(ctx, flags, func(s *style.Styler, _ int64) error {
				return s.NodeShape(ctx, column, mapping)
			})
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "node column (required)")
	cmd.Flags().StringToStringVar(&mapping, "map", nil, "value=shape pairs")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func (c *CLI) stylePieCommand(flags *styleFlags) *cobra.Command {
	var (
		columns []string
		kind    string
		opts    style.ChartOptions
	)

	cmd := &cobra.Command{
		Use:   "pie",
		Short: "Draw node columns as ring or pie charts",
		Long: `Draw one or more numeric node columns as a ring or pie chart on each
node. Each column becomes one slice.`,
		Example: `  gocyto style pie --network ppi --columns string,biogrid,intact
  gocyto style pie --network ppi --columns a,b --kind pie --colors #E41A1C,#377EB8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Kind = style.ChartKind(strings.ToLower(kind))
			if opts.Hole == 0 {
				opts.Hole = c.settings().Style.Hole
			}
			ctx := cmd.Context()
			return c.withStyler(ctx, flags, func(s *style.Styler, _ int64) error {
				return s.NodePieChart(ctx, columns, opts)
			})
		},
	}

	cmd.Flags().StringSliceVar(&columns, "columns", nil, "node columns, one per slice (required)")
	cmd.Flags().StringVar(&kind, "kind", string(style.Ring), "chart kind: ring or pie")
	cmd.Flags().IntVar(&opts.Slot, "slot", 1, "custom graphics slot 1..9")
	cmd.Flags().Float64Var(&opts.Hole, "hole", 0, "ring hole size in (0, 1] (default: config or 0.7)")
	cmd.Flags().Float64Var(&opts.Size, "size", 0, "chart size (default: derived from the node size)")
	cmd.Flags().StringSliceVar(&opts.Colors, "colors", nil, "slice colors, one per column")
	_ = cmd.MarkFlagRequired("columns")
	return cmd
}

func (c *CLI) styleArrowsCommand(flags *styleFlags) *cobra.Command {
	var (
		column string
		pairs  map[string]string
	)

	cmd := &cobra.Command{
		Use:   "arrows",
		Short: "Map an edge column to arrow shapes",
		Long: `Map an edge column to source and target arrow shapes.

Each --map entry is value=SOURCE:TARGET. Without --map the common
interaction types are used (activates, inhibits, binds, interacts with).`,
		Example: `  gocyto style arrows --network ppi
  gocyto style arrows --network ppi --map "phosphorylates=NONE:DELTA"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := parseArrows(pairs)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return c.withStyler(ctx, flags, func(s *style.Styler, _ int64) error {
				return s.EdgeArrows(ctx, column, mapping)
			})
		},
	}

	cmd.Flags().StringVar(&column, "column", pipeline.DefaultArrowColumn, "edge column")
	cmd.Flags().StringToStringVar(&pairs, "map", nil, "value=SOURCE:TARGET pairs")
	return cmd
}

// parseArrows converts value=SOURCE:TARGET flags. An empty input returns nil
// so the default arrows apply.
func parseArrows(pairs map[string]string) (map[string]style.Arrows, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]style.Arrows, len(pairs))
	for value, spec := range pairs {
		src, dst, ok := strings.Cut(spec, ":")
		if !ok || src == "" || dst == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "arrow mapping %q=%q: want SOURCE:TARGET", value, spec)
		}
		out[value] = style.Arrows{Source: strings.ToUpper(src), Target: strings.ToUpper(dst)}
	}
	return out, nil
}
