package cmds

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	input "github.com/tcnksm/go-input"

	"github.com/lavagna-ai/lavagna/pkg/conversation"
)

func NewConversationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv"},
		Short:   "Manage stored conversations",
	}

	cmd.AddCommand(
		newConversationsListCommand(),
		newConversationsDeleteCommand(),
		newConversationsExportCommand(),
		newConversationsClearCommand(),
	)

	return cmd
}

func openStore() (*conversation.Store, error) {
	stateStore, err := newStateStore()
	if err != nil {
		return nil, err
	}
	return conversation.NewStore(stateStore)
}

func newConversationsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List conversations, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			activeID := store.ActiveID()
			for _, conv := range store.Conversations() {
				marker := " "
				if conv.ID == activeID {
					marker = "*"
				}
				fmt.Printf("%s %s  %-30q  %s  %d messages  %s\n",
					marker, conv.ID, conv.Title, conv.Model, len(conv.Messages),
					conv.UpdatedAt.Format("02/01/2006 15:04"))
			}
			return nil
		},
	}
}

func newConversationsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid conversation id")
			}

			store, err := openStore()
			if err != nil {
				return err
			}

			conv := store.GetConversation(id)
			if conv == nil {
				return errors.Errorf("conversation %s not found", id)
			}

			if !force {
				ui := &input.UI{
					Writer: os.Stdout,
					Reader: os.Stdin,
				}
				answer, err := ui.Ask(fmt.Sprintf("Delete conversation %q? (y/N)", conv.Title), &input.Options{
					Default:  "N",
					Required: true,
					Loop:     true,
				})
				if err != nil {
					return err
				}
				if answer != "y" && answer != "Y" {
					fmt.Println("aborted")
					return nil
				}
			}

			store.DeleteConversation(id)
			fmt.Printf("deleted %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func newConversationsExportCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a conversation as a Markdown document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid conversation id")
			}

			store, err := openStore()
			if err != nil {
				return err
			}

			export, err := store.ExportConversation(id)
			if err != nil {
				return err
			}

			path, err := export.WriteFile(dir)
			if err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write the export into")
	return cmd
}

func newConversationsClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the active conversation, keeping its title and model",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			if store.CurrentConversation() == nil {
				fmt.Println("no active conversation")
				return nil
			}
			store.ClearCurrentConversation()
			fmt.Println("conversation cleared")
			return nil
		},
	}
}
