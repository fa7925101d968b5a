package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kayz/docsynth/internal/logger"
)

var (
	logLevel    string
	logFilePath string
	configPath  string
)

var rootCmd = &cobra.Command{
	Use:   "docsynth",
	Short: "Config-driven synthetic document generation",
	Long: `docsynth generates synthetic domain documents by composing prompts from
configurable ingredients (domain profiles, structure templates, weighted
style/content requirements) and sending them to an LLM backend.

Commands:
  docsynth generate   Run the generation pipeline
  docsynth validate   Check catalogs and templates without generating`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// API keys typically live in .env next to the pipeline config
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logger.Warn("load .env: %v", err)
		}

		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)

		if logFilePath != "" {
			if err := logger.SetLogFile(logFilePath); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringVar(&logFilePath, "log-file", "",
		"Mirror log output to a file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pipeline.yml",
		"Path to the pipeline config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
