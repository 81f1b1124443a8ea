package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/josephlewis42/rawsh/core/shell"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := color.New(color.Bold)
		for _, builtin := range shell.BuiltinNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name.Sprint(builtin), shell.BuiltinSummary(builtin))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
