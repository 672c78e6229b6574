package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amirhf/clipfeed/services/search-go/models"
)

var (
	historyLimit   int
	historyClear   bool
	historyStats   bool
	historyPopular bool
	historyFind    string
	historyRemove  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or edit the search history",
	Long: `Inspect or edit the search history.

Examples:
  clipsearch history --limit 5
  clipsearch history --popular
  clipsearch history --find cat
  clipsearch history --remove "cute cats"
  clipsearch history --clear`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		h := a.history

		switch {
		case historyClear:
			h.Clear(ctx)
			fmt.Fprintln(out, "History cleared")
			return nil
		case historyRemove != "":
			h.RemoveSearch(ctx, historyRemove)
			return nil
		case historyStats:
			stats := h.Stats()
			if outputJSON {
				return writeJSON(out, stats)
			}
			fmt.Fprintf(out, "total searches:   %d\n", stats.TotalSearches)
			fmt.Fprintf(out, "unique queries:   %d\n", stats.UniqueQueries)
			fmt.Fprintf(out, "average results:  %d\n", stats.AverageResultCount)
			fmt.Fprintf(out, "most searched:    %s\n", stats.MostSearchedQuery)
			fmt.Fprintf(out, "recent categories: %v\n", h.RecentCategories(5))
			return nil
		case historyPopular:
			popular := h.PopularSearches(historyLimit)
			if outputJSON {
				return writeJSON(out, models.StringsResponse{Values: popular})
			}
			for _, q := range popular {
				fmt.Fprintln(out, q)
			}
			return nil
		}

		var items []models.HistoryItem
		if historyFind != "" {
			items = h.SearchInHistory(historyFind)
		} else {
			items = h.History(historyLimit)
		}
		if outputJSON {
			return writeJSON(out, models.HistoryResponse{Items: items})
		}
		for _, it := range items {
			when := time.UnixMilli(it.Timestamp).Format("2006-01-02 15:04")
			fmt.Fprintf(out, "%s  %s", when, it.Query)
			if it.Category != "" {
				fmt.Fprintf(out, "  [%s]", it.Category)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum number of entries (0 for all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the whole history")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "Show history statistics")
	historyCmd.Flags().BoolVar(&historyPopular, "popular", false, "Show the most repeated queries")
	historyCmd.Flags().StringVar(&historyFind, "find", "", "Show entries containing this text")
	historyCmd.Flags().StringVar(&historyRemove, "remove", "", "Remove the entry with this exact query")
}
