package cmds

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/lavagna-ai/lavagna/pkg/conversation"
	"github.com/lavagna-ai/lavagna/pkg/events"
)

const chatTopic = "chat"

// chatPrinter renders streaming events onto the terminal as they arrive.
type chatPrinter struct{}

func (p *chatPrinter) HandleStart(_ context.Context, _ *events.EventStart) error {
	return nil
}

func (p *chatPrinter) HandlePartialCompletion(_ context.Context, e *events.EventPartialCompletion) error {
	fmt.Print(e.Delta)
	return nil
}

func (p *chatPrinter) HandleFinal(_ context.Context, _ *events.EventFinal) error {
	fmt.Println()
	return nil
}

func (p *chatPrinter) HandleError(_ context.Context, e *events.EventError) error {
	fmt.Printf("\nerrore: %s\n", e.ErrorString)
	return nil
}

func NewChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a completion model, streaming the response",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			stateStore, err := newStateStore()
			if err != nil {
				return err
			}

			router, err := events.NewEventRouter()
			if err != nil {
				return err
			}
			defer func() {
				_ = router.Close()
			}()

			publisher := events.NewPublisherManager()
			publisher.SubscribePublisher(chatTopic, router.Publisher)
			router.RegisterChatEventHandler("chat-printer", chatTopic, &chatPrinter{})

			store, err := conversation.NewStore(stateStore,
				conversation.WithCompleter(client),
				conversation.WithPublisher(publisher),
			)
			if err != nil {
				return err
			}

			model := viper.GetString("model")
			if current := store.CurrentConversation(); current != nil {
				fmt.Printf("continuing %q (%d messages)\n", current.Title, len(current.Messages))
				model = current.Model
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				return router.Run(ctx)
			})
			<-router.Running()

			runChatLoop(ctx, store, model)

			cancel()
			if err := eg.Wait(); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	return cmd
}

func runChatLoop(ctx context.Context, store *conversation.Store, model string) {
	fmt.Println("lavagna chat — /new, /retry, /clear, /exit")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/exit":
			return
		case "/new":
			conv := store.NewConversation(model)
			fmt.Printf("new conversation %s\n", conv.ID)
			continue
		case "/clear":
			store.ClearCurrentConversation()
			fmt.Println("conversation cleared")
			continue
		case "/retry":
			if err := store.RetryLastMessage(ctx); err != nil {
				fmt.Printf("errore: %s\n", err)
				continue
			}
			store.WaitForIdle()
			continue
		}

		if err := store.SendMessage(ctx, line, model); err != nil {
			fmt.Printf("errore: %s\n", err)
			continue
		}
		store.WaitForIdle()

		if errMsg := store.LastError(); errMsg != "" {
			log.Debug().Str("error", errMsg).Msg("completion settled with error")
			fmt.Println("usa /retry per riprovare")
		}
	}
}
