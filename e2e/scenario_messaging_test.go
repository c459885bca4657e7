package e2e

import (
	"alumni-chat/domain/chat"
	"alumni-chat/infrastructure/grpc/client"
	"alumni-chat/projection"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const frameTimeout = 3 * time.Second

type MessagingSuite struct {
	BaseGrpcSuite
}

func TestMessagingSuite(t *testing.T) {
	suite.Run(t, new(MessagingSuite))
}

func (s *MessagingSuite) SetupTest() {
	s.BaseGrpcSuite.SetupTest()
	s.SeedProfile(chat.Profile{ID: "alice", DisplayName: "Alice Martin", AvatarRef: "/a.png", Title: "Class of 2012"})
	s.SeedProfile(chat.Profile{ID: "bob", DisplayName: "Bob Lefèvre", AvatarRef: "/b.png", Title: "Class of 2015"})
}

func watchConversations(ctx context.Context, c *client.ChatClient) <-chan []chat.PersistedItem {
	frames := make(chan []chat.PersistedItem, 32)
	go func() {
		_ = c.WatchConversations(ctx, func(items []chat.PersistedItem) { frames <- items })
	}()
	return frames
}

func watchMessages(ctx context.Context, c *client.ChatClient, id chat.ConversationID) <-chan []chat.Message {
	frames := make(chan []chat.Message, 32)
	go func() {
		_ = c.WatchMessages(ctx, id, func(messages []chat.Message) { frames <- messages })
	}()
	return frames
}

// await returns the first frame matching accept.
func await[T any](s *MessagingSuite, frames <-chan T, accept func(T) bool) T {
	deadline := time.After(frameTimeout)
	for {
		select {
		case frame := <-frames:
			if accept(frame) {
				return frame
			}
		case <-deadline:
			s.FailNow("expected frame not received")
			var zero T
			return zero
		}
	}
}

func (s *MessagingSuite) TestFirstMessage_Creates_Conversation_For_Both() {
	ctx, cancel := context.WithTimeout(context.Background(), scenarioTimeout)
	defer cancel()

	bob := s.Client("Bob watches his list", "bob")
	bobList := watchConversations(ctx, bob)
	s.Empty(await(s, bobList, func([]chat.PersistedItem) bool { return true }))

	id := chat.ConversationIDFor("alice", "bob")
	bobThread := watchMessages(ctx, bob, id)
	s.Empty(await(s, bobThread, func([]chat.Message) bool { return true }))

	s.WithUser("Alice writes to Bob", "alice", func(ctx context.Context, alice *client.ChatClient) {
		message, err := alice.Send(ctx, "bob", "  Hello Bob!  ")
		s.Require().NoError(err)
		s.Equal("Hello Bob!", message.Text)
		s.Equal(id, message.ConversationID)
		s.False(message.CreatedAt.IsZero())
	})

	items := await(s, bobList, func(items []chat.PersistedItem) bool { return len(items) == 1 })
	s.Equal(id, items[0].Conversation.ID)
	s.Equal("Hello Bob!", items[0].Conversation.LastMessageText)
	s.Equal("Alice Martin", items[0].PartnerInfo.DisplayName)

	messages := await(s, bobThread, func(m []chat.Message) bool { return len(m) == 1 })
	s.Equal("alice", messages[0].SenderID)

	// When bob answers, the thread keeps server order
	_, err := bob.Send(ctx, "alice", "Hi Alice")
	s.Require().NoError(err)
	messages = await(s, bobThread, func(m []chat.Message) bool { return len(m) == 2 })
	s.Equal([]string{"Hello Bob!", "Hi Alice"}, []string{messages[0].Text, messages[1].Text})
	s.True(messages[1].CreatedAt.After(messages[0].CreatedAt))
}

func (s *MessagingSuite) TestBlank_Message_Is_Rejected_Without_Write() {
	s.WithUser("Alice sends spaces", "alice", func(ctx context.Context, alice *client.ChatClient) {
		_, err := alice.Send(ctx, "bob", " \n\t ")
		s.Equal(codes.InvalidArgument, status.Code(err))

		_, err = alice.Send(ctx, "", "hello?")
		s.Equal(codes.InvalidArgument, status.Code(err))

		list := watchConversations(ctx, alice)
		s.Empty(await(s, list, func([]chat.PersistedItem) bool { return true }))
	})
}

func (s *MessagingSuite) TestCalls_Require_A_Token() {
	conn := s.GrpcConn("Anonymous caller")
	defer conn.Close()
	anonymous := client.NewChatClientFromConn(s.log, conn, "not-a-token")

	ctx, cancel := context.WithTimeout(context.Background(), scenarioTimeout)
	defer cancel()

	_, err := anonymous.Send(ctx, "bob", "hello")
	s.Equal(codes.Unauthenticated, status.Code(err))

	// The id derivation is public
	id, err := anonymous.ConversationID(ctx, "bob", "alice")
	s.Require().NoError(err)
	s.Equal(chat.ConversationID("alice_bob"), id)
}

func (s *MessagingSuite) TestStrangers_Cannot_Read_A_Conversation() {
	s.WithUser("Carol spies", "carol", func(ctx context.Context, carol *client.ChatClient) {
		err := carol.WatchMessages(ctx, chat.ConversationIDFor("alice", "bob"), func([]chat.Message) {
			s.Fail("no frame expected")
		})
		s.Equal(codes.PermissionDenied, status.Code(err))
	})
}

func (s *MessagingSuite) TestProfile_Update_Refreshes_Partner_Lists() {
	ctx, cancel := context.WithTimeout(context.Background(), scenarioTimeout)
	defer cancel()

	alice := s.Client("Alice", "alice")
	_, err := alice.Send(ctx, "bob", "congrats on the new job")
	s.Require().NoError(err)

	list := watchConversations(ctx, alice)
	items := await(s, list, func(items []chat.PersistedItem) bool { return len(items) == 1 })
	s.Equal("Bob Lefèvre", items[0].PartnerInfo.DisplayName)

	s.WithUser("Bob edits his profile", "bob", func(ctx context.Context, bob *client.ChatClient) {
		_, err := bob.UpdateProfile(ctx, "Robert Lefèvre", "/b2.png", "CTO")
		s.Require().NoError(err)
	})

	items = await(s, list, func(items []chat.PersistedItem) bool {
		return len(items) == 1 && items[0].PartnerInfo.DisplayName == "Robert Lefèvre"
	})
	s.Equal("CTO", items[0].PartnerInfo.Title)
}

func (s *MessagingSuite) TestUnknown_Partner_Gets_Placeholder_Profile() {
	s.WithUser("Alice opens a ghost", "alice", func(ctx context.Context, alice *client.ChatClient) {
		profile, err := alice.ResolveProfile(ctx, "ghost")
		s.Require().NoError(err)
		s.Equal(chat.FallbackProfile("ghost"), profile)
	})
}

func (s *MessagingSuite) TestOpen_Conversation_Stays_Visible_While_Searching() {
	ctx, cancel := context.WithTimeout(context.Background(), scenarioTimeout)
	defer cancel()

	alice := s.Client("Alice", "alice")
	_, err := alice.Send(ctx, "bob", "see you at the gala")
	s.Require().NoError(err)

	items := await(s, watchConversations(ctx, alice), func(items []chat.PersistedItem) bool { return len(items) == 1 })
	bob, err := alice.ResolveProfile(ctx, "bob")
	s.Require().NoError(err)

	// While bob is open, a search that matches nothing keeps him listed
	visible := projection.VisibleList(items, "unrelated", &bob, "alice")
	s.Require().Len(visible, 1)
	s.Equal("bob", visible[0].Partner().ID)

	// And with nobody open the same search hides him
	s.Empty(projection.VisibleList(items, "unrelated", nil, "alice"))
}
