package cmds

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lavagna-ai/lavagna/pkg/openrouter"
)

func NewModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the curated completion models",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range openrouter.PopularModels {
				fmt.Printf("%-36s %-20s ctx %-8d $%s/$%s per 1M tokens\n",
					m.ID, m.Name, m.ContextLength, m.PromptPrice, m.CompletePrice)
			}
			return nil
		},
	}
}
