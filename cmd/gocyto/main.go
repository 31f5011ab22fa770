package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jorgebotas/gocyto/internal/cli"
	cyerrors "github.com/jorgebotas/gocyto/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", cyerrors.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// The log level is only known once flags are parsed.
	setup := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if setup != nil {
			return setup(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// exitCode is 2 for bad input, 3 when Cytoscape could not be reached or
// rejected a call, and 1 otherwise.
func exitCode(err error) int {
	switch cyerrors.GetCode(err) {
	case cyerrors.ErrCodeInvalidInput, cyerrors.ErrCodeInvalidFormat, cyerrors.ErrCodeInvalidPath,
		cyerrors.ErrCodeInvalidColumn, cyerrors.ErrCodeInvalidConfig, cyerrors.ErrCodeInvalidNetwork,
		cyerrors.ErrCodeFileNotFound:
		return 2
	case cyerrors.ErrCodeNetwork, cyerrors.ErrCodeTimeout, cyerrors.ErrCodeRemoteAPI:
		return 3
	}
	return 1
}
