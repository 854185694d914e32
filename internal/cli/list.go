package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/relaymesh/relaypick/internal/app"
	"github.com/relaymesh/relaypick/internal/domain"
	"github.com/relaymesh/relaypick/internal/infra/store"
)

var listRules string

func init() {
	listCmd.Flags().StringVar(&listRules, "rules", "", "Resolve tiers against a YAML rules file")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list SOURCE",
	Aliases: []string{"ls"},
	Short:   "List the relays discovered in a pool directory",
	Args:    cobra.ExactArgs(1),
	RunE:    runList,
}

func runList(cmd *cobra.Command, args []string) error {
	priorities := domain.NewPriorityMap()
	if listRules != "" {
		raw, err := app.LoadRules(listRules)
		if err != nil {
			return err
		}
		req, err := app.BuildRequest(raw)
		if err != nil {
			return fmt.Errorf("invalid rules: %w", err)
		}
		priorities = req.Priorities
	}

	records, err := store.Discover(args[0], newLogger("warn"))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No relays found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RELAY\tGROUP\tTIER\tSOURCE")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.ID,
			rec.ID.GroupKey(),
			priorities.Resolve(rec.ID),
			filepath.Base(rec.Source),
		)
	}
	return w.Flush()
}
