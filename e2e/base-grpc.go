package e2e

import (
	"alumni-chat/auth"
	"alumni-chat/domain/chat"
	"alumni-chat/infrastructure/grpc/chatapi"
	"alumni-chat/infrastructure/grpc/client"
	"alumni-chat/infrastructure/grpc/server"
	"alumni-chat/infrastructure/storage"
	"alumni-chat/runtime"
	"alumni-chat/services"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const scenarioTimeout = 10 * time.Second

// BaseGrpcSuite runs a complete chat server over an in-memory listener,
// with a fresh store for every test.
type BaseGrpcSuite struct {
	suite.Suite
	Config Config

	log      *slog.Logger
	listener *bufconn.Listener
	server   *grpc.Server
	db       *badger.DB
	profiles *services.ProfileService
	tokens   auth.TokenManager
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	s.log = logs.GetLoggerFromString(s.Config.LogLevel)
	s.tokens = auth.NewTokenManager("e2e-secret", time.Hour)
}

func (s *BaseGrpcSuite) SetupTest() {
	var err error
	s.db, err = badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.WARNING))
	s.Require().NoError(err)

	registry := runtime.NewRegistry(s.log)
	chatRepository := storage.NewChatRepository(s.db, s.log, storage.NewServerClock(), registry)
	s.profiles, err = services.NewProfileService(s.log, storage.NewProfileRepository(s.db), registry, 1000, time.Minute)
	s.Require().NoError(err)
	chatService := services.NewChatService(s.log, registry, chatRepository, s.profiles)

	interceptor := auth.NewInterceptor(s.tokens, server.PublicMethods...)
	s.server = grpc.NewServer(
		grpc.ForceServerCodec(chatapi.Codec{}),
		grpc.ChainUnaryInterceptor(interceptor.Unary()),
		grpc.ChainStreamInterceptor(interceptor.Stream()),
	)
	chatapi.RegisterChatServiceServer(s.server, server.NewChatServer(s.log, chatService, s.profiles, 16))

	s.listener = bufconn.Listen(1 << 20)
	go func() {
		_ = s.server.Serve(s.listener)
	}()
}

func (s *BaseGrpcSuite) TearDownTest() {
	s.server.Stop()
	s.profiles.Close()
	s.Require().NoError(s.db.Close())
}

// GrpcConn initializes a gRPC connection with logging, colors, and JSON debugging
func (s *BaseGrpcSuite) GrpcConn(name string) *grpc.ClientConn {
	t := s.T()
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		chatapi.CallOptions(),
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))

			// Log full JSON request/response bodies if E2E_DEBUG_JSON is enabled
			if s.Config.DebugJSON {
				fmt.Fprintln(&logBuilder, "\nREQUEST:")
				fmt.Fprintln(&logBuilder, indent(req))
				if err != nil {
					fmt.Fprintln(&logBuilder, "ERROR:", err)
				} else {
					fmt.Fprintln(&logBuilder, "RESPONSE:")
					fmt.Fprintln(&logBuilder, indent(reply))
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
	)
	s.Require().NoError(err, "Failed to connect to the in-memory gRPC server")
	return conn
}

// WithUser provides a client authenticated as userID within a contextual test step
func (s *BaseGrpcSuite) WithUser(name, userID string, fn func(ctx context.Context, chatClient *client.ChatClient)) {
	token, err := s.tokens.GenerateToken(userID)
	s.Require().NoError(err)
	chatClient := client.NewChatClientFromConn(s.log, s.GrpcConn(name), token)
	defer chatClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), scenarioTimeout)
	defer cancel()

	fn(ctx, chatClient)
}

// Client opens a client for userID that stays open until the test ends.
func (s *BaseGrpcSuite) Client(name, userID string) *client.ChatClient {
	token, err := s.tokens.GenerateToken(userID)
	s.Require().NoError(err)
	chatClient := client.NewChatClientFromConn(s.log, s.GrpcConn(name), token)
	s.T().Cleanup(func() { _ = chatClient.Close() })
	return chatClient
}

func (s *BaseGrpcSuite) SeedProfile(p chat.Profile) {
	s.Require().NoError(s.profiles.UpdateProfile(context.Background(), p))
}

func indent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(data)
}
