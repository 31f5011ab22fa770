package cli

import (
	"github.com/spf13/cobra"

	"github.com/jorgebotas/gocyto/pkg/pipeline"
	"github.com/jorgebotas/gocyto/pkg/render"
)

func (c *CLI) exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the Cytoscape session or a network image",
	}
	cmd.AddCommand(c.exportSessionCommand())
	cmd.AddCommand(c.exportImageCommand())
	return cmd
}

func (c *CLI) exportSessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "session <path>",
		Short: "Save the current session",
		Long: `Save the current Cytoscape session. The .cys extension is appended when
missing. The path is resolved by Cytoscape, so relative paths are relative to
the Cytoscape working directory.`,
		Example: `  gocyto export session results/ppi`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, closeClient, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			runner := pipeline.NewRunner(client, nil, c.Logger)
			var saved string
			err = spin(ctx, "Saving session...", "Session saved", func() error {
				saved, err = runner.ExportSession(ctx, args[0])
				return err
			})
			if err != nil {
				return err
			}
			printFile(saved)
			return nil
		},
	}
}

func (c *CLI) exportImageCommand() *cobra.Command {
	var (
		network   string
		format    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "image <path>",
		Short: "Export the first view of a network as an image",
		Long: `Export the first view of a network as SVG, PNG or PDF. The format
extension is appended when missing and the file is written locally.`,
		Example: `  gocyto export image ppi --network ppi
  gocyto export image figures/ppi.png --format png --overwrite=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			if err := pipeline.ValidateImageFormat(f); err != nil {
				return err
			}

			ctx := cmd.Context()
			r, err := c.connect(ctx, network)
			if err != nil {
				return err
			}
			defer r.close()

			var written string
			err = spin(ctx, "Exporting image...", "Image exported", func() error {
				written, err = r.runner.ExportImage(ctx, r.suid, args[0], f, overwrite)
				return err
			})
			if err != nil {
				return err
			}
			printFile(written)
			return nil
		},
	}

	cmd.Flags().StringVar(&network, "network", "", "network name or SUID")
	cmd.Flags().StringVarP(&format, "format", "f", string(pipeline.DefaultImageFormat), "image format: svg, png or pdf")
	cmd.Flags().BoolVar(&overwrite, "overwrite", true, "replace an existing file")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return imageFormats(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
