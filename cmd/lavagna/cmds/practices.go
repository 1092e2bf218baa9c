package cmds

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lavagna-ai/lavagna/pkg/catalog"
)

func NewPracticesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "practices",
		Short: "Show best practices for legal prompting",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load()
			if err != nil {
				return err
			}

			fmt.Println("DA FARE")
			for _, p := range c.BestPractices() {
				if p.Type == "do" {
					fmt.Printf("  ✓ %s\n    %s\n", p.Title, p.Description)
				}
			}

			fmt.Println("\nDA EVITARE")
			for _, p := range c.BestPractices() {
				if p.Type == "dont" {
					fmt.Printf("  ✗ %s\n    %s\n", p.Title, p.Description)
				}
			}
			return nil
		},
	}
}
