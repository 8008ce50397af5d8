package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/stagefx/logging"
)

var (
	configPath string
	debugLog   bool
	logDir     string

	logger   *zap.Logger
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "stagefx",
	Short: "Animated page transitions over a reactive particle field",
	Long: `stagefx renders a small multi-page site in the terminal. Page changes run a
timed hide, swap and reveal sequence, shortened when reduced motion is
preferred, over a particle field that reacts to scrolling.

Run without arguments to open the stage.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, closeLog, err = logging.Setup(debugLog, logDir)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = closeLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, runFlags)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default config/stagefx.yaml, else built-in)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "write debug logs to the log directory")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", logging.DefaultDir, "log directory used with --debug")

	bindRunFlags(rootCmd)
	rootCmd.AddCommand(runCmd, timelineCmd, versionCmd)
}
