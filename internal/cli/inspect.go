package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jorgebotas/gocyto/pkg/errors"
	netio "github.com/jorgebotas/gocyto/pkg/io"
	"github.com/jorgebotas/gocyto/pkg/pipeline"
	"github.com/jorgebotas/gocyto/pkg/render"
	"github.com/jorgebotas/gocyto/pkg/render/nodelink"
	"github.com/jorgebotas/gocyto/pkg/style"
	"github.com/jorgebotas/gocyto/pkg/table"
)

// inputFlags name the tabular input files.
type inputFlags struct {
	edges    string
	clusters string
	sources  string
}

func addInputFlags(cmd *cobra.Command, in *inputFlags) {
	cmd.Flags().StringVarP(&in.edges, "edges", "e", "", "edge list file (required)")
	cmd.Flags().StringVarP(&in.clusters, "clusters", "c", "", "cluster file")
	cmd.Flags().StringVarP(&in.sources, "sources", "s", "", "source attribute file")
	_ = cmd.MarkFlagRequired("edges")
	_ = cmd.MarkFlagFilename("edges", "tsv", "csv", "txt", "cyjs", "json")
}

// load reads the input files the way the network command does. A
// Cytoscape.js file written by "inspect --json" is read as is.
func (c *CLI) load(in inputFlags) (*table.Network, *table.LoadReport, error) {
	if isCytoscapeJSON(in.edges) {
		if in.clusters != "" || in.sources != "" {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "--clusters and --sources cannot be joined to a Cytoscape.js file")
		}
		net, err := netio.ImportJSON(in.edges)
		if err != nil {
			return nil, nil, err
		}
		return net, &table.LoadReport{EdgeRows: len(net.Edges)}, nil
	}
	return table.Load(c.loadOptions(in.edges, in.clusters, in.sources))
}

func isCytoscapeJSON(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".cyjs" || ext == ".json"
}

// =============================================================================
// inspect
// =============================================================================

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		in       inputFlags
		limit    int
		jsonPath string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the node table built from tabular files",
		Long: `Load the input files exactly as "gocyto network" would and print the
resulting node table, without contacting Cytoscape. Useful to check column
names, joins and dropped nodes before creating a network.`,
		Example: `  gocyto inspect -e ppi.tsv -c clusters.tsv -s sources.tsv
  gocyto inspect -e ppi.tsv --limit 0
  gocyto inspect -e ppi.tsv -c clusters.tsv --json ppi.cyjs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			net, report, err := c.load(in)
			if err != nil {
				return err
			}

			printSuccess("Loaded %s", in.edges)
			printStats(net.Nodes.Len(), len(net.Edges), len(report.DroppedNodes), report.PrunedEdges)
			if n := len(report.DroppedNodes); n > 0 {
				printDetail("dropped (no cluster): %s", summarize(report.DroppedNodes, 10))
			}
			printNewline()

			fmt.Println(renderTable(nodeTableRows(net.Nodes, limit)))
			if limit > 0 && net.Nodes.Len() > limit {
				printDetail("%d more row(s); use --limit 0 to show all", net.Nodes.Len()-limit)
			}

			if len(net.AttributeColumns) > 0 {
				printKeyValue("Attributes", strings.Join(net.AttributeColumns, ", "))
			}
			if len(net.ClusterColors) > 0 {
				printKeyValue("Colors", fmt.Sprintf("%d explicit cluster color(s)", len(net.ClusterColors)))
			}

			if jsonPath != "" {
				name := strings.TrimSuffix(filepath.Base(in.edges), filepath.Ext(in.edges))
				if err := netio.ExportJSON(net, name, jsonPath, true); err != nil {
					return err
				}
				printFile(jsonPath)
			}
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to show (0 for all)")
	cmd.Flags().StringVar(&jsonPath, "json", "", "also write the network as Cytoscape.js JSON")
	return cmd
}

// nodeTableRows returns the headers and up to limit rows of the node table.
func nodeTableRows(nodes *table.NodeTable, limit int) ([]string, [][]string) {
	headers := append([]string{table.IDColumn}, nodes.ColumnNames()...)
	n := nodes.Len()
	if limit > 0 && n > limit {
		n = limit
	}
	rows := make([][]string, n)
	for i := range n {
		row := make([]string, 0, len(headers))
		row = append(row, nodes.IDs[i])
		for _, col := range nodes.Columns {
			row = append(row, col.Values[i])
		}
		rows[i] = row
	}
	return headers, rows
}

// summarize joins at most n items, noting how many were left out.
func summarize(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(items[:n], ", "), len(items)-n)
}

// =============================================================================
// preview
// =============================================================================

func (c *CLI) previewCommand() *cobra.Command {
	var (
		in        inputFlags
		output    string
		format    string
		engine    string
		detailed  bool
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a node-link preview of tabular files with Graphviz",
		Long: `Render the network described by the input files as a node-link diagram
with the embedded Graphviz, without Cytoscape. Nodes are filled by cluster
using the cluster file colors or the default palette.`,
		Example: `  gocyto preview -e ppi.tsv -c clusters.tsv -o ppi
  gocyto preview -e ppi.tsv --engine sfdp --format png -o ppi`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(nodelink.Engines, engine) {
				return errors.New(errors.ErrCodeInvalidInput, "unknown engine %q (want %s)", engine, strings.Join(nodelink.Engines, ", "))
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			net, _, err := c.load(in)
			if err != nil {
				return err
			}

			opts := nodelink.Options{Detailed: detailed}
			if net.HasClusters() {
				opts.ColorColumn = table.ClusterColumn
				opts.Colors = net.ClusterColors
				opts.Palette = style.PaletteColors(len(clusterValues(net.Nodes)))
			}
			dot := nodelink.ToDOT(net, opts)

			ctx := cmd.Context()
			var data []byte
			err = spin(ctx, "Rendering preview...", "Preview rendered", func() error {
				data, err = nodelink.Render(ctx, dot, f, engine)
				return err
			})
			if err != nil {
				return err
			}

			path := render.WithExtension(output, f)
			if err := render.WriteFile(path, data, overwrite); err != nil {
				return err
			}
			printFile(path)
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().StringVarP(&output, "output", "o", "preview", "output path (extension appended)")
	cmd.Flags().StringVarP(&format, "format", "f", string(render.SVG), "output format: svg, png, pdf or dot")
	cmd.Flags().StringVar(&engine, "engine", nodelink.DefaultEngine, "Graphviz layout engine")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include attribute values in node labels")
	cmd.Flags().BoolVar(&overwrite, "overwrite", true, "replace an existing file")
	_ = cmd.RegisterFlagCompletionFunc("engine", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return nodelink.Engines, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// clusterValues returns the distinct cluster values of the node table.
func clusterValues(nodes *table.NodeTable) []string {
	col, ok := nodes.Column(table.ClusterColumn)
	if !ok {
		return nil
	}
	return col.Distinct()
}

// imageFormats lists the formats Cytoscape exports, for completion.
func imageFormats() []string {
	out := make([]string, 0, len(pipeline.ImageFormats))
	for f := range pipeline.ImageFormats {
		out = append(out, string(f))
	}
	slices.Sort(out)
	return out
}
