package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var collectionsJSON bool

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Manage collections",
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections and their record counts",
	RunE:  runCollectionsList,
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a collection and all its records",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionsDelete,
}

func init() {
	collectionsListCmd.Flags().BoolVar(&collectionsJSON, "json", false, "output as JSON")
	collectionsCmd.AddCommand(collectionsListCmd)
	collectionsCmd.AddCommand(collectionsDeleteCmd)
	rootCmd.AddCommand(collectionsCmd)
}

func runCollectionsList(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	collections, err := vectorStore.ListCollections(cmd.Context())
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	if collectionsJSON {
		data, err := json.MarshalIndent(collections, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal collections: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(collections) == 0 {
		cmd.Println("No collections.")
		return nil
	}
	for _, c := range collections {
		cmd.Printf("%s\t%d records\tmodel %s\n", c.Name, c.RecordCount, c.EmbeddingModel)
	}
	return nil
}

func runCollectionsDelete(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	if err := vectorStore.DeleteCollection(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	cmd.Printf("Deleted collection %q\n", args[0])
	return nil
}
