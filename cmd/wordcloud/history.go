package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/csheth/wordcloud/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently visited sources",
	Long:  `Prints the most recent routes, newest first. Any of them can be passed back to wordcloud to reopen it.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of visits to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	visits, err := store.Recent(context.Background(), historyLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(visits) == 0 {
		fmt.Fprintln(out, "No visits recorded yet.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, v := range visits {
		fmt.Fprintf(w, "%s\t%s\n", v.VisitedAt.Local().Format("2006-01-02 15:04"), v.Route.String())
	}
	return w.Flush()
}
