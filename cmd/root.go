package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/uiruntime/internal/config"
	"github.com/mj1618/uiruntime/internal/log"
	"github.com/mj1618/uiruntime/internal/output"
	"github.com/mj1618/uiruntime/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "uiruntime",
	Short: "Inspect and patch a UI dispatch table",
	Long: `uiruntime hosts a dispatch table of UI classes, confines its mutation to a
main-thread loop, and exposes it for inspection, message sends and method
interposition from the command line or over MCP.`,
	SilenceUsage: true,
}

// appConfig is the configuration loaded by the root command.
var appConfig config.Config

// rt is the runtime built for the current invocation.
var rt *Runtime

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json, table")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $HOME/.config/uiruntime/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := rootCmd.PersistentFlags().GetString("config")
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if lvl, _ := rootCmd.PersistentFlags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}
		appConfig = cfg
		log.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		rt, err = newRuntime(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize runtime: %w", err)
		}
		return nil
	}
}
