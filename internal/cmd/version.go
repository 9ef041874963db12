package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tagmill/tagmill/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tagmill version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tagmill %s (%s)\n", version.String(), runtime.Version())
	},
}

func init() {
	RootCommand.AddCommand(versionCmd)
}
