package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amirhf/clipfeed/services/search-go/models"
)

var (
	searchCategory string
	searchSort     string
	searchMax      int
	searchNoRecord bool
	suggestMax     int
	outputJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog",
	Long: `Search the catalog and record the query in the search history.

Examples:
  clipsearch search "cute cats"
  clipsearch search dance --category Music --sort views --max 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sortBy := models.SortBy(searchSort)
		if !sortBy.Valid() {
			return fmt.Errorf("invalid --sort %q (relevance, views, likes, time)", searchSort)
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		query := strings.Join(args, " ")
		results := a.engine.Search(query, models.SearchOptions{
			Category:   searchCategory,
			SortBy:     sortBy,
			MaxResults: searchMax,
		})
		if !searchNoRecord {
			count := len(results)
			category := searchCategory
			if category == models.CategoryAll {
				category = ""
			}
			a.history.AddSearch(cmd.Context(), query, category, &count)
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return writeJSON(out, models.SearchResponse{Query: query, Total: len(results), Results: results})
		}
		return printResults(out, results)
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [prefix]",
	Short: "Show autocomplete suggestions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		limit := suggestMax
		if !cmd.Flags().Changed("max") {
			limit = cfg.MaxSuggestions
		}
		suggestions := a.engine.Suggestions(args[0], limit)

		out := cmd.OutOrStdout()
		if outputJSON {
			return writeJSON(out, models.SuggestionResponse{Suggestions: suggestions})
		}
		for _, s := range suggestions {
			fmt.Fprintf(out, "%-9s %-30s %d\n", s.Type, s.Text, s.Count)
		}
		return nil
	},
}

var hotCmd = &cobra.Command{
	Use:   "hot",
	Short: "Show trending hashtags, categories and creators",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		terms := a.engine.HotSearches()
		out := cmd.OutOrStdout()
		if outputJSON {
			return writeJSON(out, models.HotSearchResponse{Terms: terms})
		}
		for i, term := range terms {
			fmt.Fprintf(out, "%2d. %s\n", i+1, term)
		}
		return nil
	},
}

func printResults(out io.Writer, results []models.SearchResult) error {
	if len(results) == 0 {
		fmt.Fprintln(out, "No results")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tTITLE\tAUTHOR\tCATEGORY\tVIEWS\tMATCHED")
	for _, r := range results {
		fields := make([]string, len(r.MatchedFields))
		for i, f := range r.MatchedFields {
			fields[i] = string(f)
		}
		fmt.Fprintf(tw, "%.2f\t%s\t%s\t%s\t%d\t%s\n",
			r.RelevanceScore, r.Video.Title, r.Video.Author.Name, r.Video.Category,
			r.Video.Views, strings.Join(fields, ","))
	}
	return tw.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(searchCmd, suggestCmd, hotCmd)
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Print JSON instead of a table")

	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "Only return videos in this category")
	searchCmd.Flags().StringVarP(&searchSort, "sort", "s", string(models.SortByRelevance), "Order of results (relevance, views, likes, time)")
	searchCmd.Flags().IntVarP(&searchMax, "max", "m", 20, "Maximum number of results (0 for all)")
	searchCmd.Flags().BoolVar(&searchNoRecord, "no-record", false, "Do not add the query to the search history")

	suggestCmd.Flags().IntVarP(&suggestMax, "max", "m", 8, "Maximum number of suggestions")
}
