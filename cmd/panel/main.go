package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smarthome-panel/internal/app"
	"smarthome-panel/internal/logger"
	"smarthome-panel/internal/tui"
	"smarthome-panel/pkg/config"
)

const serviceName = "smarthome-panel"

// cli holds state shared by the root command and its subcommands
type cli struct {
	envFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "panel",
		Short: "Smart home control panel",
		Long: `Terminal control panel for a smart home: log in, manage devices, and
run the request, analysis, decision and response workflow from a chat.

Run without arguments to open the interactive panel. Logs go to LOG_FILE
while the panel owns the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd == cmd.Root())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			runErr := tui.Run(a)
			if err := a.Close(); err != nil {
				c.logger.Warn("Shutdown incomplete", zap.Error(err))
			}
			return runErr
		},
	}

	root.PersistentFlags().StringVar(&c.envFile, "env", "", "env file to load instead of ./.env")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(c.usersCmd(), c.devicesCmd(), c.eventsCmd())
	return root
}

// setup loads configuration and builds the logger. The interactive panel
// logs to a file; subcommands log to stderr.
func (c *cli) setup(interactive bool) error {
	if c.envFile != "" {
		cfg, err := config.LoadFile(c.envFile)
		if err != nil {
			return err
		}
		c.cfg = cfg
	} else {
		c.cfg = config.Load()
	}
	if c.verbose {
		c.cfg.LogLevel = "debug"
	}

	var err error
	if interactive {
		c.logger, err = logger.NewFileLogger(c.cfg.LogFile, c.cfg.LogLevel, serviceName)
	} else {
		c.logger, err = logger.NewLogger(c.cfg.LogLevel, c.cfg.LogFormat, serviceName)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}
