package cmds

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewCreditsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "credits",
		Short: "Show the API key's balance and usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			credits := client.GetCredits(cmd.Context())
			fmt.Printf("balance: %.2f\nusage:   %.2f\nlimit:   %.2f\n",
				credits.Balance, credits.Usage, credits.Limit)
			return nil
		},
	}
}
