package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"homekeep/internal/cli"
	"homekeep/internal/config"
	"homekeep/internal/log"
)

var (
	envFile string

	cfg     *config.Config
	logger  *log.Logger
	session *cli.Session
)

// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	root := newRootCmd(os.Stdout)
	err := root.ExecuteContext(ctx)
	if cerr := shutdown(); cerr != nil {
		fmt.Fprintln(os.Stderr, "warning: changes may not have been saved:", cerr)
		if err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "homekeep",
		Short:        "Track appliances, maintenance, expenses and trusted pros for your home",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.LoadEnvFile(envFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
			var err error
			if cfg, err = cli.LoadAndValidateConfig(); err != nil {
				return err
			}
			if logger, err = cli.SetupLogger(cfg, log.ComponentCLI); err != nil {
				return err
			}
			session, err = cli.OpenSession(cmd.Context(), cfg, logger)
			return err
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "environment file to load (default .env)")

	root.AddCommand(
		profileCmd(),
		applianceCmd(),
		taskCmd(),
		expenseCmd(),
		budgetCmd(),
		proCmd(),
		digestCmd(),
	)
	return root
}

// shutdown flushes the store and releases resources opened by PersistentPreRunE.
func shutdown() error {
	var err error
	if session != nil {
		err = session.Close()
		session = nil
	}
	if logger != nil {
		_ = logger.Close()
		logger = nil
	}
	return err
}
