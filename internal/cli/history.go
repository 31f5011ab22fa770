package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jorgebotas/gocyto/pkg/errors"
	"github.com/jorgebotas/gocyto/pkg/history"
)

func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous network runs",
		Long: `List the runs of "gocyto network" recorded in the local history database,
most recent first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No runs recorded yet")
				return nil
			}

			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = []string{
					shortID(r.ID),
					r.StartedAt.Local().Format("2006-01-02 15:04"),
					r.Network,
					suidText(r.SUID),
					fmt.Sprintf("%d/%d", r.Nodes, r.Edges),
					statusText(r.Status),
				}
			}
			fmt.Println(renderTable([]string{"Run", "Started", "Network", "SUID", "Nodes/Edges", "Status"}, rows))
			printDetail("%s", store.Path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum runs to list (0 for all)")
	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyPruneCommand())
	return cmd
}

func (c *CLI) historyShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run>",
		Short: "Show one run in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := findRun(cmd, store, args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(r.Network))
			printKeyValue("Run", r.ID)
			printKeyValue("Status", statusText(r.Status))
			printKeyValue("Started", r.StartedAt.Local().Format(time.RFC3339))
			printKeyValue("Duration", r.Duration.Round(time.Millisecond).String())
			printKeyValue("Server", r.BaseURL)
			printKeyValue("SUID", suidText(r.SUID))
			printKeyValue("Edges file", r.EdgesPath)
			printKeyValue("Size", fmt.Sprintf("%d nodes, %d edges", r.Nodes, r.Edges))
			if r.Style != "" {
				printKeyValue("Style", r.Style)
			}
			if r.Session != "" {
				printKeyValue("Session", r.Session)
			}
			if r.Image != "" {
				printKeyValue("Image", r.Image)
			}
			if r.Error != "" {
				printError("%s", r.Error)
			}
			return nil
		},
	}
}

func (c *CLI) historyPruneCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old runs from the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--older-than must be positive")
			}
			store, err := c.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			printSuccess("Removed %d run(s) older than %s", n, olderThan)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the runs to delete")
	return cmd
}

// requireHistory opens the history store or explains why it is unavailable.
func (c *CLI) requireHistory() (*history.Store, error) {
	if c.settings().History.Disabled {
		return nil, errors.New(errors.ErrCodeUnsupported, "run history is disabled in the configuration")
	}
	store := c.openHistory()
	if store == nil {
		return nil, errors.New(errors.ErrCodeInternal, "run history could not be opened")
	}
	return store, nil
}

// findRun resolves a full run ID or the short prefix shown by "history".
func findRun(cmd *cobra.Command, store *history.Store, ref string) (*history.Run, error) {
	ctx := cmd.Context()
	if r, err := store.Get(ctx, ref); err == nil {
		return r, nil
	} else if !errors.Is(err, errors.ErrCodeNotFound) {
		return nil, err
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	var match *history.Run
	for i := range runs {
		if len(ref) >= 4 && strings.HasPrefix(runs[i].ID, ref) {
			if match != nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "run prefix %q is ambiguous", ref)
			}
			match = &runs[i]
		}
	}
	if match == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "run %q not found", ref)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func suidText(suid int64) string {
	if suid == 0 {
		return "-"
	}
	return strconv.FormatInt(suid, 10)
}

func statusText(status string) string {
	if status == history.StatusOK {
		return StyleSuccess.Render(status)
	}
	return StyleWarning.Render(status)
}
