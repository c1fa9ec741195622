package main

import (
	"fmt"

	"github.com/phrazzld/redpost/internal/app"
	"github.com/spf13/cobra"
)

var suggestTopic string

// suggestCmd prints related topics
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest related post topics",
	Long: `Asks the text model for up to five catchy related titles and prints
them one per line. Nothing is printed when no suggestions are available.`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestTopic, "topic", "t", "", "topic to expand (required)")
	_ = suggestCmd.MarkFlagRequired("topic")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	application, err := app.New(cmd.Context(), cfg, log, appOptions...)
	if err != nil {
		return err
	}
	defer application.Close()

	for _, topic := range application.Generation.SuggestTopics(cmd.Context(), suggestTopic) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), topic); err != nil {
			return err
		}
	}
	return nil
}
