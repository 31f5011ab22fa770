package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// shapesCommand lists the node shapes the server supports.
func (c *CLI) shapesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List the node shapes Cytoscape supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, closeClient, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			shapes, err := client.NodeShapes(ctx)
			if err != nil {
				return err
			}
			rows := make([][]string, len(shapes))
			for i, s := range shapes {
				rows[i] = []string{strconv.Itoa(i + 1), s}
			}
			printNewline()
			fmt.Println(renderTable([]string{"#", "Shape"}, rows))
			return nil
		},
	}
}

// pingCommand checks that CyREST answers.
func (c *CLI) pingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the connection to Cytoscape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, closeClient, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			prog := newProgress(c.Logger)
			v, err := client.Version(ctx)
			if err != nil {
				printError("Cytoscape is not reachable at %s", client.BaseURL())
				printDetail("start Cytoscape or pass --base-url")
				return err
			}
			prog.done("version received")

			printSuccess("Connected to %s", StyleHighlight.Render(client.BaseURL()))
			printKeyValue("Cytoscape", v.CytoscapeVersion)
			printKeyValue("CyREST API", v.APIVersion)
			return nil
		},
	}
}
