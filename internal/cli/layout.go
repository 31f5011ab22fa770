package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jorgebotas/gocyto/pkg/config"
	"github.com/jorgebotas/gocyto/pkg/cyrest"
	"github.com/jorgebotas/gocyto/pkg/pipeline"
)

// =============================================================================
// Shared Flags
// =============================================================================

// addLayoutFlags registers the attributes layout parameters on cmd.
func addLayoutFlags(cmd *cobra.Command, l *config.Layout) {
	f := cmd.Flags()
	f.Float64Var(&l.SpacingX, "spacingx", 0, "attributes layout horizontal spacing")
	f.Float64Var(&l.SpacingY, "spacingy", 0, "attributes layout vertical spacing")
	f.Float64Var(&l.MaxWidth, "maxwidth", 0, "attributes layout maximum width")
	f.Float64Var(&l.MinRadius, "minrad", 0, "attributes layout minimum radius")
	f.Float64Var(&l.RadiusMultiplier, "radmult", 0, "attributes layout radius multiplier")
}

var layoutFlagNames = []string{"spacingx", "spacingy", "maxwidth", "minrad", "radmult"}

// changedLayoutFlags returns the layout parameters given on the command line.
func changedLayoutFlags(cmd *cobra.Command) []string {
	var changed []string
	for _, name := range layoutFlagNames {
		if cmd.Flags().Changed(name) {
			changed = append(changed, name)
		}
	}
	return changed
}

// mergeLayout overrides base with the named fields of flags. Zero is a
// valid override.
func mergeLayout(base, flags config.Layout, changed []string) config.Layout {
	for _, name := range changed {
		switch name {
		case "spacingx":
			base.SpacingX = flags.SpacingX
		case "spacingy":
			base.SpacingY = flags.SpacingY
		case "maxwidth":
			base.MaxWidth = flags.MaxWidth
		case "minrad":
			base.MinRadius = flags.MinRadius
		case "radmult":
			base.RadiusMultiplier = flags.RadiusMultiplier
		}
	}
	return base
}

// layoutParams returns the configured layout with flag overrides applied.
func (c *CLI) layoutParams(cmd *cobra.Command, flags config.Layout) config.Layout {
	return mergeLayout(c.settings().Layout, flags, changedLayoutFlags(cmd))
}

// =============================================================================
// Remote Session
// =============================================================================

// remote bundles a client, a runner without history, and the target network.
type remote struct {
	client *cyrest.Client
	runner *pipeline.Runner
	suid   int64
	close  func()
}

// connect creates a client and resolves the network reference. An empty ref
// selects the network interactively.
func (c *CLI) connect(ctx context.Context, ref string) (*remote, error) {
	client, closeClient, err := c.newClient(ctx)
	if err != nil {
		return nil, err
	}
	suid, err := resolveNetwork(ctx, client, ref)
	if err != nil {
		closeClient()
		return nil, err
	}
	return &remote{
		client: client,
		runner: pipeline.NewRunner(client, nil, c.Logger),
		suid:   suid,
		close:  closeClient,
	}, nil
}

// =============================================================================
// layout
// =============================================================================

func (c *CLI) layoutCommand() *cobra.Command {
	var (
		network string
		column  string
		params  config.Layout
		noFit   bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Group the nodes of a network by a column",
		Long: `Group the nodes of an existing network by a node column using the
attributes layout, then fit the view.

Without --network the only network of the session is used, or a picker is
shown when several exist.`,
		Example: `  gocyto layout --network ppi
  gocyto layout --network 52 --column community --spacingx 200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := c.connect(ctx, network)
			if err != nil {
				return err
			}
			defer r.close()

			l := c.layoutParams(cmd, params)
			err = spin(ctx, "Applying layout...", "Layout applied", func() error {
				if err := r.runner.Layout(ctx, r.suid, column, l); err != nil {
					return err
				}
				if noFit {
					return nil
				}
				return r.client.Fit(ctx, r.suid)
			})
			if err != nil {
				return err
			}
			printKeyValue("Network", fmt.Sprint(r.suid))
			printKeyValue("Column", column)
			return nil
		},
	}

	cmd.Flags().StringVar(&network, "network", "", "network name or SUID")
	cmd.Flags().StringVar(&column, "column", pipeline.DefaultColorColumn, "node column to group by")
	cmd.Flags().BoolVar(&noFit, "no-fit", false, "keep the current zoom")
	addLayoutFlags(cmd, &params)
	return cmd
}

// =============================================================================
// annotate
// =============================================================================

func (c *CLI) annotateCommand() *cobra.Command {
	var (
		network string
		column  string
		params  config.Layout
		labels  pipeline.AnnotateOptions
	)

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Label each cluster of a network",
		Long: `Group the nodes of an existing network by a column and add one text
label above each group.

The column values are read back from Cytoscape, so this works on networks
created by any tool.`,
		Example: `  gocyto annotate --network ppi
  gocyto annotate --network ppi --column community --font-size 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := c.connect(ctx, network)
			if err != nil {
				return err
			}
			defer r.close()

			if labels.FontFamily == "" {
				labels.FontFamily = c.settings().Style.LabelFont
			}
			l := c.layoutParams(cmd, params)

			prog := newProgress(c.Logger)
			added, err := r.runner.AnnotateRemote(ctx, r.suid, column, l, labels)
			if err != nil {
				return err
			}
			prog.done("annotations added", "column", column, "count", len(added))

			printSuccess("Added %d cluster label(s) to network %d", len(added), r.suid)
			for _, lb := range added {
				printDetail("%s %s (%d nodes)", column, lb.Cluster, lb.Members)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&network, "network", "", "network name or SUID")
	cmd.Flags().StringVar(&column, "column", pipeline.DefaultColorColumn, "node column to group and label by")
	cmd.Flags().StringVar(&labels.FontFamily, "font", "", "label font family (default: config or Avenir)")
	cmd.Flags().IntVar(&labels.FontSize, "font-size", pipeline.DefaultLabelFontSize, "label font size")
	addLayoutFlags(cmd, &params)
	return cmd
}
