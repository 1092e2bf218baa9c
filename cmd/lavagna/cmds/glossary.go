package cmds

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lavagna-ai/lavagna/pkg/catalog"
)

func NewGlossaryCommand() *cobra.Command {
	var letter string

	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Browse the AI glossary for lawyers",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load()
			if err != nil {
				return err
			}

			current := ""
			for _, term := range c.Glossary() {
				if letter != "" && !strings.EqualFold(term.Letter, letter) {
					continue
				}
				if term.Letter != current {
					current = term.Letter
					fmt.Printf("\n%s\n", current)
				}
				fmt.Printf("  %s — %s\n", term.Term, term.Definition)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&letter, "letter", "l", "", "Only show terms starting with this letter")
	return cmd
}
