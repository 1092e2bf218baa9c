package cmds

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lavagna-ai/lavagna/pkg/catalog"
)

func NewTechniquesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "techniques",
		Short: "Browse the prompting technique catalog",
	}

	cmd.AddCommand(
		newTechniquesListCommand(),
		newTechniquesShowCommand(),
		newTechniquesSearchCommand(),
		newTechniquesCompareCommand(),
		newTechniquesFavoriteCommand(),
	)

	return cmd
}

func openFavorites() (*catalog.Favorites, error) {
	dir, err := stateDir()
	if err != nil {
		return nil, err
	}
	return catalog.NewFavorites(dir)
}

func printTechniqueLine(t catalog.Technique, favorites *catalog.Favorites) {
	star := " "
	if favorites != nil && favorites.IsFavorite(t.ID) {
		star = "★"
	}
	fmt.Printf("%s %-18s %-32s %-10s %-10s %s\n", star, t.ID, t.Name, t.Complexity, t.Cost, t.Category)
}

func newTechniquesListCommand() *cobra.Command {
	var category, complexity, sortKey string
	var favoritesOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List techniques",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load()
			if err != nil {
				return err
			}
			favorites, err := openFavorites()
			if err != nil {
				return err
			}

			techniques := c.SortTechniques(catalog.SortKey(sortKey))
			for _, t := range techniques {
				if category != "" && t.Category != catalog.Category(category) {
					continue
				}
				if complexity != "" && t.Complexity != complexity {
					continue
				}
				if favoritesOnly && !favorites.IsFavorite(t.ID) {
					continue
				}
				printTechniqueLine(t, favorites)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category (base, avanzata, esperta)")
	cmd.Flags().StringVar(&complexity, "complexity", "", "Filter by complexity label")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "name", "Sort by name, complexity or cost")
	cmd.Flags().BoolVar(&favoritesOnly, "favorites", false, "Only show starred techniques")
	return cmd
}

func newTechniquesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one technique in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load()
			if err != nil {
				return err
			}

			t, ok := c.GetTechnique(args[0])
			if !ok {
				return errors.Errorf("unknown technique %q", args[0])
			}

			fmt.Printf("%s (%s)\n\n", t.Name, t.Category)
			fmt.Printf("  %s\n\n", t.Description)
			fmt.Printf("  Quando usarla: %s\n", t.UseCase)
			fmt.Printf("  Vantaggi:      %s\n", t.Advantages)
			fmt.Printf("  Svantaggi:     %s\n", t.Disadvantages)
			fmt.Printf("  Complessità:   %s\n", t.Complexity)
			fmt.Printf("  Costo:         %s\n", t.Cost)
			fmt.Printf("  Applicazioni:  %s\n\n", strings.Join(t.Applications, ", "))
			fmt.Printf("  Esempio: %s\n", t.Example)
			return nil
		},
	}
}

func newTechniquesSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search techniques by name, description or use case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load()
			if err != nil {
				return err
			}
			favorites, err := openFavorites()
			if err != nil {
				return err
			}

			for _, t := range c.SearchTechniques(args[0]) {
				printTechniqueLine(t, favorites)
			}
			return nil
		},
	}
}

func newTechniquesCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <id> <id> [id...]",
		Short: "Compare techniques side by side",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load()
			if err != nil {
				return err
			}

			techniques := c.Compare(args...)
			if len(techniques) < 2 {
				return errors.New("need at least two known technique ids to compare")
			}

			rows := []struct {
				label string
				value func(catalog.Technique) string
			}{
				{"Nome", func(t catalog.Technique) string { return t.Name }},
				{"Categoria", func(t catalog.Technique) string { return string(t.Category) }},
				{"Complessità", func(t catalog.Technique) string { return t.Complexity }},
				{"Costo", func(t catalog.Technique) string { return t.Cost }},
				{"Quando", func(t catalog.Technique) string { return t.UseCase }},
				{"Vantaggi", func(t catalog.Technique) string { return t.Advantages }},
				{"Svantaggi", func(t catalog.Technique) string { return t.Disadvantages }},
			}

			for _, row := range rows {
				fmt.Printf("%-12s", row.label)
				for _, t := range techniques {
					fmt.Printf(" | %-40s", row.value(t))
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func newTechniquesFavoriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Star or unstar a technique",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load()
			if err != nil {
				return err
			}
			if _, ok := c.GetTechnique(args[0]); !ok {
				return errors.Errorf("unknown technique %q", args[0])
			}

			favorites, err := openFavorites()
			if err != nil {
				return err
			}

			if favorites.Toggle(args[0]) {
				fmt.Printf("starred %s\n", args[0])
			} else {
				fmt.Printf("unstarred %s\n", args[0])
			}
			return nil
		},
	}
}
