package cmd

import (
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("improtron-osc v%s\n", version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
