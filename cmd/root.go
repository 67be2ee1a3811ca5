package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootLogger is the logger handed down from main and shared by all subcommands.
var rootLogger *zap.Logger

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "transcriptor",
	Short: "Transcriptor is a CLI tool for transcribing a project into one context file",
	Long: `Transcriptor walks a project directory, filters files through glob and
gitignore rules, estimates LLM token usage, and concatenates the selected
files into a single context artifact suitable for language-model input.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(logger *zap.Logger) error {
	rootLogger = logger
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
