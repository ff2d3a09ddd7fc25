package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sharadhiadiga/Elint/internal/application/workflow"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Show how many orders sit in each workflow stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		repos := persistence.NewRepositories(app.db.DB)
		counts, err := workflow.NewEngine(repos.Orders(), app.log).StageCounts(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STAGE\tORDERS")
		for _, c := range counts {
			fmt.Fprintf(w, "%s\t%d\n", c.Status, c.Count)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(stagesCmd)
}
