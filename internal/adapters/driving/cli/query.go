package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
)

var (
	queryCollection string
	queryTopK       int
	queryJSON       bool
)

// Styles for human-readable query output.
var (
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Retrieve the most relevant passages for a query",
	Long: `Embeds the query and returns the passages of the collection most
similar to it, ordered by descending similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryCollection, "collection", "c", "", "collection to search (default docs)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "maximum number of passages (default 5)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	results, err := retrieveSvc.Retrieve(cmd.Context(), args[0], queryCollection, queryTopK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printResults(cmd, results)
	return nil
}

func printResults(cmd *cobra.Command, results []domain.RetrievalResult) {
	for i, r := range results {
		cmd.Printf("[%d] %s %s\n", i+1,
			scoreStyle.Render(fmt.Sprintf("%.3f", r.Score)),
			sourceStyle.Render(r.SourceURI))
		if len(r.HeadingPath) > 0 {
			cmd.Printf("    %s\n", headingStyle.Render(strings.Join(r.HeadingPath, " > ")))
		}
		cmd.Printf("    %s\n", r.Content)
		cmd.Println()
	}
}
