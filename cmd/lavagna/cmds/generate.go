package cmds

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lavagna-ai/lavagna/pkg/catalog"
	"github.com/lavagna-ai/lavagna/pkg/generator"
)

func NewGenerateCommand() *cobra.Command {
	var templateID string
	var params []string
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a prompt from a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load()
			if err != nil {
				return err
			}

			if templateID == "" {
				for _, t := range c.Templates() {
					fmt.Printf("%-24s %-24s %s (params: %s)\n",
						t.ID, t.Name, t.Description, strings.Join(t.Params, ", "))
				}
				return nil
			}

			values := map[string]interface{}{}
			for _, p := range params {
				key, value, found := strings.Cut(p, "=")
				if !found {
					return errors.Errorf("invalid parameter %q, expected key=value", p)
				}
				values[key] = value
			}

			rendered, err := generator.NewGenerator(c).Render(templateID, values)
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(rendered), 0644); err != nil {
					return errors.Wrap(err, "write output")
				}
				fmt.Printf("written to %s\n", output)
				return nil
			}
			fmt.Println(rendered)
			return nil
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Template id (omit to list templates)")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Template parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the prompt to a file instead of stdout")
	return cmd
}
