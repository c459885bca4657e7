package main

import (
	"alumni-chat/contract"
	"alumni-chat/domain/chat"
	"alumni-chat/infrastructure/grpc/client"
	"alumni-chat/projection"
	"alumni-chat/services"
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// remoteSender lets a composer post through the gRPC client.
type remoteSender struct {
	client *client.ChatClient
}

func (r remoteSender) Send(ctx context.Context, cmd chat.SendMessageCommand) (chat.Message, error) {
	return r.client.Send(ctx, cmd.PartnerID, cmd.Text)
}

func run() (int, error) {
	config, err := LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	chatClient, err := client.NewChatClient(logger, config.Addr, config.Token)
	if err != nil {
		return exitRuntime, err
	}
	defer chatClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	term := newTerminal(os.Stdout, config.UserID, config.Colours)

	list := projection.Go(ctx, func(ctx context.Context) {
		reportUnavailable(term, "Conversation list", chatClient.WatchConversations(ctx, term.setItems))
	})
	defer list.Wait()
	defer list.Cancel()

	var selection projection.Selection
	defer selection.Close()

	var composer *services.Composer
	open := func(partnerID string) {
		partner, err := chatClient.ResolveProfile(ctx, partnerID)
		if err != nil {
			term.Notify("Profile unavailable: " + err.Error())
			return
		}
		id := chat.ConversationIDFor(config.UserID, partnerID)
		term.setOpen(partner)
		composer = services.NewComposer(remoteSender{client: chatClient}, term, config.UserID, partnerID)
		selection.Switch(func() *projection.Handle {
			return projection.Go(ctx, func(ctx context.Context) {
				reportUnavailable(term, "Conversation", chatClient.WatchMessages(ctx, id, term.showMessages))
			})
		})
	}
	if config.Partner != "" {
		open(config.Partner)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			switch {
			case line == "/quit":
				return exitOK, nil
			case line == "/list":
				term.showList()
			case strings.HasPrefix(line, "/search"):
				term.setQuery(strings.TrimSpace(strings.TrimPrefix(line, "/search")))
			case strings.HasPrefix(line, "/open "):
				open(strings.TrimSpace(strings.TrimPrefix(line, "/open ")))
			case composer == nil:
				term.Notify("Select a conversation first: /open <user>")
			default:
				composer.SetDraft(line)
				_, _ = composer.Submit(ctx)
			}
		}
	}
}

// reportUnavailable tells the user a live view stopped. A watch that ended
// because the client quit returns nil and stays silent.
func reportUnavailable(notifier contract.Notifier, what string, err error) {
	if err != nil {
		notifier.Notify(what + " unavailable: " + err.Error())
	}
}
