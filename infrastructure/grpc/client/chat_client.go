package client

import (
	"alumni-chat/auth"
	"alumni-chat/domain/chat"
	"alumni-chat/infrastructure/grpc/chatapi"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// ChatClient is the remote counterpart of services.ChatService for one
// authenticated user.
type ChatClient struct {
	log    *slog.Logger
	conn   *grpc.ClientConn
	client chatapi.ChatServiceClient
	token  string
}

func NewChatClient(log *slog.Logger, address, token string) (*ChatClient, error) {
	conn, err := grpc.NewClient(address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		chatapi.CallOptions(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return NewChatClientFromConn(log, conn, token), nil
}

// NewChatClientFromConn wraps an existing connection, which must be dialed
// with chatapi.CallOptions().
func NewChatClientFromConn(log *slog.Logger, conn *grpc.ClientConn, token string) *ChatClient {
	return &ChatClient{log: log, conn: conn, client: chatapi.NewChatServiceClient(conn), token: token}
}

func (c *ChatClient) Close() error {
	return c.conn.Close()
}

func (c *ChatClient) authContext(ctx context.Context) context.Context {
	return auth.BearerContext(ctx, c.token)
}

func (c *ChatClient) ConversationID(ctx context.Context, a, b string) (chat.ConversationID, error) {
	res, err := c.client.ConversationID(ctx, &chatapi.ConversationIDRequest{A: a, B: b})
	if err != nil {
		return "", err
	}
	return chat.ConversationID(res.ConversationID), nil
}

func (c *ChatClient) ResolveProfile(ctx context.Context, id string) (chat.Profile, error) {
	res, err := c.client.ResolveProfile(c.authContext(ctx), &chatapi.ResolveProfileRequest{ProfileID: id})
	if err != nil {
		return chat.Profile{}, err
	}
	return chatapi.ToProfile(res.Profile), nil
}

func (c *ChatClient) UpdateProfile(ctx context.Context, displayName, avatarRef, title string) (chat.Profile, error) {
	res, err := c.client.UpdateProfile(c.authContext(ctx), &chatapi.UpdateProfileRequest{
		DisplayName: displayName,
		AvatarRef:   avatarRef,
		Title:       title,
	})
	if err != nil {
		return chat.Profile{}, err
	}
	return chatapi.ToProfile(res.Profile), nil
}

func (c *ChatClient) Send(ctx context.Context, partnerID, text string) (chat.Message, error) {
	res, err := c.client.Send(c.authContext(ctx), &chatapi.SendRequest{PartnerID: partnerID, Text: text})
	if err != nil {
		return chat.Message{}, err
	}
	return chatapi.ToMessage(res.Message), nil
}

// WatchConversations blocks, calling callback with every list the server
// pushes, until ctx is done or the stream ends.
func (c *ChatClient) WatchConversations(ctx context.Context, callback func([]chat.PersistedItem)) error {
	stream, err := c.client.SubscribeConversations(c.authContext(ctx), &chatapi.SubscribeConversationsRequest{})
	if err != nil {
		return err
	}
	return receive(c.log, stream, func(frame *chatapi.ConversationsFrame) {
		callback(chatapi.ToItems(frame.Items))
	})
}

func (c *ChatClient) WatchMessages(ctx context.Context, id chat.ConversationID, callback func([]chat.Message)) error {
	stream, err := c.client.SubscribeMessages(c.authContext(ctx), &chatapi.SubscribeMessagesRequest{ConversationID: id.String()})
	if err != nil {
		return err
	}
	return receive(c.log, stream, func(frame *chatapi.MessagesFrame) {
		callback(chatapi.ToMessages(frame.Messages))
	})
}

func receive[T any](log *slog.Logger, stream grpc.ServerStreamingClient[T], handle func(*T)) error {
	for {
		frame, err := stream.Recv()
		if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
			return nil
		}
		if err != nil {
			log.Warn("Stream closed", "error", err)
			return err
		}
		handle(frame)
	}
}
