package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jorgebotas/gocyto/pkg/config"
	"github.com/jorgebotas/gocyto/pkg/pipeline"
	"github.com/jorgebotas/gocyto/pkg/render"
	"github.com/jorgebotas/gocyto/pkg/style"
	"github.com/jorgebotas/gocyto/pkg/table"
)

// networkFlags holds the flags of the network command that do not map
// directly onto pipeline.Options.
type networkFlags struct {
	edges     string
	clusters  string
	sources   string
	preset    string
	format    string
	layout    config.Layout
	changed   []string // layout flags given on the command line
}

// networkCommand creates the command that runs the whole pipeline.
func (c *CLI) networkCommand() *cobra.Command {
	var flags networkFlags
	opts := pipeline.Options{Overwrite: true}

	cmd := &cobra.Command{
		Use:   "network",
		Short: "Create and style a network from tabular files",
		Long: `Create and style a network from tabular files.

Reads a tab- or comma-separated edge list (columns #node1 and node2), derives
the nodes, and optionally joins a cluster file (keyed by "protein name") and a
source attribute file (keyed by "gene"). Nodes without a cluster are dropped.

The network is created in Cytoscape with a "<name> style" visual style. Nodes
are colored by cluster, attribute columns are drawn as ring charts, and nodes
are grouped by cluster with the attributes layout.`,
		Example: `  # Edges only
  gocyto network -n ppi -e string_interactions.tsv

  # Clusters, sources, cluster labels and exports
  gocyto network -n ppi -e ppi.tsv -c clusters.tsv -s sources.tsv \
    --annotate --session ppi --image ppi --format png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.changed = changedLayoutFlags(cmd)
			return c.runNetwork(cmd.Context(), opts, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Name, "name", "n", pipeline.DefaultNetworkName, "network name")
	f.StringVarP(&flags.edges, "edges", "e", "", "edge list file (required)")
	f.StringVarP(&flags.clusters, "clusters", "c", "", "cluster file")
	f.StringVarP(&flags.sources, "sources", "s", "", "source attribute file")
	f.StringVar(&opts.Collection, "collection", "", "network collection (default: the network name)")

	f.StringVar(&opts.ColorColumn, "color-column", pipeline.DefaultColorColumn, "node column to color by")
	f.StringVar(&opts.ColorType, "color-type", "", "color mapping type: c, d or p (default: inferred)")
	f.BoolVar(&opts.NoColor, "no-color", false, "skip node colors")
	f.BoolVar(&opts.NoPie, "no-pie", false, "skip attribute ring charts")
	f.Float64Var(&opts.Chart.Hole, "hole", 0, "ring chart hole size in (0, 1] (default: config or 0.7)")
	f.BoolVar(&opts.Arrows, "arrows", false, "map the interaction column to arrow shapes")
	f.StringVar(&flags.preset, "style-preset", "", "YAML style preset replacing the default style")

	f.BoolVar(&opts.NoLayout, "no-layout", false, "skip the cluster layout")
	addLayoutFlags(cmd, &flags.layout)
	f.BoolVar(&opts.Annotate, "annotate", false, "label each cluster")

	f.StringVar(&opts.SessionPath, "session", "", "save the session (.cys appended)")
	f.StringVar(&opts.ImagePath, "image", "", "export an image (extension appended)")
	f.StringVar(&flags.format, "format", string(pipeline.DefaultImageFormat), "image format: svg, png or pdf")
	f.BoolVar(&opts.Overwrite, "overwrite", true, "overwrite an existing image")

	_ = cmd.MarkFlagRequired("edges")
	_ = cmd.MarkFlagFilename("edges", "tsv", "csv", "txt")
	_ = cmd.MarkFlagFilename("clusters", "tsv", "csv", "txt")
	_ = cmd.MarkFlagFilename("sources", "tsv", "csv", "txt")
	_ = cmd.MarkFlagFilename("style-preset", "yaml", "yml")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return imageFormats(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// networkOptions merges the configuration and flags into pipeline options.
func (c *CLI) networkOptions(opts pipeline.Options, flags networkFlags) (pipeline.Options, error) {
	cfg := c.settings()

	opts.Load = c.loadOptions(flags.edges, flags.clusters, flags.sources)

	opts.Layout = mergeLayout(cfg.Layout, flags.layout, flags.changed)
	if opts.Chart.Hole == 0 {
		opts.Chart.Hole = cfg.Style.Hole
	}
	opts.Labels.FontFamily = cfg.Style.LabelFont

	preset := flags.preset
	if preset == "" {
		preset = cfg.Style.Preset
	}
	if preset != "" {
		sc, err := style.LoadPreset(preset)
		if err != nil {
			return opts, err
		}
		opts.StyleConfig = &sc
	}

	format, err := render.ParseFormat(flags.format)
	if err != nil {
		return opts, err
	}
	opts.ImageFormat = format

	opts.Logger = c.Logger
	opts.Warn = warningSink
	return opts, nil
}

// loadOptions builds table load options from the configured column names.
func (c *CLI) loadOptions(edges, clusters, sources string) table.LoadOptions {
	cols := c.settings().Columns
	return table.LoadOptions{
		EdgesPath:      edges,
		ClustersPath:   clusters,
		AttributesPath: sources,
		EdgeColumns: table.EdgeColumns{
			Source:      cols.Source,
			Target:      cols.Target,
			Interaction: pipeline.DefaultArrowColumn,
		},
		ClusterKey:   cols.ClusterKey,
		ClusterValue: cols.ClusterValue,
		ClusterColor: cols.ClusterColor,
		AttributeKey: cols.AttributeKey,
	}
}

// runNetwork executes the pipeline and prints a summary.
func (c *CLI) runNetwork(ctx context.Context, opts pipeline.Options, flags networkFlags) error {
	opts, err := c.networkOptions(opts, flags)
	if err != nil {
		return err
	}

	runner, closeRunner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer closeRunner()

	printInfo("Creating %s in Cytoscape at %s", StyleHighlight.Render(opts.Name), StyleDim.Render(runner.API.BaseURL()))
	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if result != nil && result.SUID != 0 {
			printDetail("network %d was created before the failure and is left in place", result.SUID)
		}
		return err
	}
	prog.done("pipeline complete", "run", result.RunID)

	printSuccess("Created %s (SUID %d)", StyleHighlight.Render(opts.Name), result.SUID)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, len(result.Report.DroppedNodes), result.Report.PrunedEdges)
	printKeyValue("Style", result.StyleName)
	if len(result.Labels) > 0 {
		printKeyValue("Labels", strconv.Itoa(len(result.Labels)))
	}
	if result.Session != "" {
		printKeyValue("Session", result.Session)
	}
	if result.Image != "" {
		printFile(result.Image)
	}
	if n := len(result.Warnings); n > 0 {
		printDetail("%d styling warning(s)", n)
	}
	printNewline()
	if !opts.Annotate && result.Network.HasClusters() {
		printNextStep("Label clusters", fmt.Sprintf("%s annotate --network %d", appName, result.SUID))
	}
	return nil
}
