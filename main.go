package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llmgate/promptimprover/internal/config"
	"github.com/llmgate/promptimprover/internal/logging"
)

var (
	// Global flags
	env     string
	verbose bool

	appConfig *config.Config
	logger    *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "promptimprover",
	Short: "Rewrite prompts with an LLM and explain the changes",
	Long: `promptimprover sends a prompt to a language model and returns an
improved version of it together with an explanation of what changed.

Run "promptimprover serve" for the web page, or "promptimprover improve"
for a one-shot rewrite on the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(env)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		appConfig = cfg

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	defaultEnv := os.Getenv("APP_ENV")
	if defaultEnv == "" {
		defaultEnv = "default"
	}

	rootCmd.PersistentFlags().StringVar(&env, "env", defaultEnv, "Config file name (or set APP_ENV)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(improveCmd)
	rootCmd.AddCommand(keyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
