package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/josephlewis42/rawsh/core/config"
	"github.com/spf13/cobra"
)

// playgroundCmd runs the shell with a throwaway configuration and logging
var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run the shell with a temporary configuration and event log.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir, err := os.MkdirTemp("", "playground")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		playgroundLogger := log.New(cmd.ErrOrStderr(), "[playground] ", 0)
		cfg, err := config.Initialize(dir, playgroundLogger)
		if err != nil {
			return err
		}

		cfg.Prompt = "playground$ "
		cfg.PromptColor = "yellow"
		cfg.HistoryFile = "history"
		cfg.AppLog = "app.log"

		playgroundLogger.Printf("Logging to: file://%s\n", cfg.Dir())
		playgroundLogger.Printf("See logs with: tail -f %s\n", filepath.Join(cfg.Dir(), cfg.AppLog))
		playgroundLogger.Println(strings.Repeat("=", 80))

		exitCode, err := runInteractive(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exit code: %d\n", exitCode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}
