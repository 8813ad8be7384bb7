package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askCollection string
	askTopK       int
	askSources    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question answered from the indexed documents",
	Long: `Retrieves the passages most relevant to the question and asks the
configured language model to answer from them.

Requires an LLM to be configured (llm.provider in the config file or
the BURROW_LLM_PROVIDER environment variable).`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askCollection, "collection", "c", "", "collection to search (default docs)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "passages retrieved as context (default 5)")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "also print the passages the answer is grounded on")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	answer, passages, err := answerService.Answer(cmd.Context(), args[0], askCollection, askTopK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer)

	if askSources && len(passages) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		printResults(cmd, passages)
	}
	return nil
}
