package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file...]",
	Short: "Show how documents would be rewritten, without writing anything",
	Long: `Parses the given documents and prints one row per annotated script
tag: the mode its attributes resolve to and the URLs the rewrite would
emit. Tags whose attributes match no recognized combination show as
pass-through. No files are modified.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		files, err := expandArgs(args)
		if err != nil {
			return err
		}

		table := tablewriter.NewTable(cmd.OutOrStdout())
		table.Header("Document", "Tag", "Mode", "URLs", "Fallback")

		for _, file := range files {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			reports, err := p.rewriter.Inspect(cmd.Context(), f)
			f.Close()
			if err != nil {
				return fmt.Errorf("failed to inspect %v: %w", file, err)
			}
			for _, rep := range reports {
				mode := "pass-through"
				if rep.Plan.OK {
					mode = rep.Plan.Mode.String()
				}
				if err := table.Append(file, strconv.Itoa(rep.Index), mode,
					strings.Join(rep.Plan.URLs, ", "), strings.Join(rep.Plan.Fallback, ", ")); err != nil {
					return err
				}
			}
		}
		return table.Render()
	},
}

func init() {
	RootCommand.AddCommand(inspectCmd)
}
