package chatapi

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "alumnichat.v1.ChatService"

const (
	ChatService_ConversationID_FullMethodName         = "/" + ServiceName + "/ConversationID"
	ChatService_ResolveProfile_FullMethodName         = "/" + ServiceName + "/ResolveProfile"
	ChatService_UpdateProfile_FullMethodName          = "/" + ServiceName + "/UpdateProfile"
	ChatService_Send_FullMethodName                   = "/" + ServiceName + "/Send"
	ChatService_SubscribeConversations_FullMethodName = "/" + ServiceName + "/SubscribeConversations"
	ChatService_SubscribeMessages_FullMethodName      = "/" + ServiceName + "/SubscribeMessages"
)

type ChatService_SubscribeConversationsServer = grpc.ServerStreamingServer[ConversationsFrame]
type ChatService_SubscribeMessagesServer = grpc.ServerStreamingServer[MessagesFrame]
type ChatService_SubscribeConversationsClient = grpc.ServerStreamingClient[ConversationsFrame]
type ChatService_SubscribeMessagesClient = grpc.ServerStreamingClient[MessagesFrame]

type ChatServiceServer interface {
	ConversationID(context.Context, *ConversationIDRequest) (*ConversationIDResponse, error)
	ResolveProfile(context.Context, *ResolveProfileRequest) (*ProfileResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*ProfileResponse, error)
	Send(context.Context, *SendRequest) (*SendResponse, error)
	SubscribeConversations(*SubscribeConversationsRequest, ChatService_SubscribeConversationsServer) error
	SubscribeMessages(*SubscribeMessagesRequest, ChatService_SubscribeMessagesServer) error
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ConversationID", Handler: _ChatService_ConversationID_Handler},
		{MethodName: "ResolveProfile", Handler: _ChatService_ResolveProfile_Handler},
		{MethodName: "UpdateProfile", Handler: _ChatService_UpdateProfile_Handler},
		{MethodName: "Send", Handler: _ChatService_Send_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "SubscribeConversations", Handler: _ChatService_SubscribeConversations_Handler, ServerStreams: true},
		{StreamName: "SubscribeMessages", Handler: _ChatService_SubscribeMessages_Handler, ServerStreams: true},
	},
	Metadata: "alumnichat/v1/chat.json",
}

// unary wires one request type to its server method, with the optional interceptor.
func unary[Req any, Res any](method string, call func(ChatServiceServer, context.Context, *Req) (*Res, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ChatServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ChatServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	_ChatService_ConversationID_Handler = unary(ChatService_ConversationID_FullMethodName, ChatServiceServer.ConversationID)
	_ChatService_ResolveProfile_Handler = unary(ChatService_ResolveProfile_FullMethodName, ChatServiceServer.ResolveProfile)
	_ChatService_UpdateProfile_Handler  = unary(ChatService_UpdateProfile_FullMethodName, ChatServiceServer.UpdateProfile)
	_ChatService_Send_Handler           = unary(ChatService_Send_FullMethodName, ChatServiceServer.Send)
)

func _ChatService_SubscribeConversations_Handler(srv any, stream grpc.ServerStream) error {
	m := new(SubscribeConversationsRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ChatServiceServer).SubscribeConversations(m, &grpc.GenericServerStream[SubscribeConversationsRequest, ConversationsFrame]{ServerStream: stream})
}

func _ChatService_SubscribeMessages_Handler(srv any, stream grpc.ServerStream) error {
	m := new(SubscribeMessagesRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ChatServiceServer).SubscribeMessages(m, &grpc.GenericServerStream[SubscribeMessagesRequest, MessagesFrame]{ServerStream: stream})
}

type ChatServiceClient interface {
	ConversationID(ctx context.Context, in *ConversationIDRequest, opts ...grpc.CallOption) (*ConversationIDResponse, error)
	ResolveProfile(ctx context.Context, in *ResolveProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	Send(ctx context.Context, in *SendRequest, opts ...grpc.CallOption) (*SendResponse, error)
	SubscribeConversations(ctx context.Context, in *SubscribeConversationsRequest, opts ...grpc.CallOption) (ChatService_SubscribeConversationsClient, error)
	SubscribeMessages(ctx context.Context, in *SubscribeMessagesRequest, opts ...grpc.CallOption) (ChatService_SubscribeMessagesClient, error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewChatServiceClient expects a connection dialed with CallOptions().
func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc}
}

// CallOptions forces the JSON codec on every call of a connection.
func CallOptions() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{}))
}

func (c *chatServiceClient) ConversationID(ctx context.Context, in *ConversationIDRequest, opts ...grpc.CallOption) (*ConversationIDResponse, error) {
	out := new(ConversationIDResponse)
	if err := c.cc.Invoke(ctx, ChatService_ConversationID_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) ResolveProfile(ctx context.Context, in *ResolveProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	out := new(ProfileResponse)
	if err := c.cc.Invoke(ctx, ChatService_ResolveProfile_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	out := new(ProfileResponse)
	if err := c.cc.Invoke(ctx, ChatService_UpdateProfile_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) Send(ctx context.Context, in *SendRequest, opts ...grpc.CallOption) (*SendResponse, error) {
	out := new(SendResponse)
	if err := c.cc.Invoke(ctx, ChatService_Send_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) SubscribeConversations(ctx context.Context, in *SubscribeConversationsRequest, opts ...grpc.CallOption) (ChatService_SubscribeConversationsClient, error) {
	stream, err := c.cc.NewStream(ctx, &ChatService_ServiceDesc.Streams[0], ChatService_SubscribeConversations_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[SubscribeConversationsRequest, ConversationsFrame]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *chatServiceClient) SubscribeMessages(ctx context.Context, in *SubscribeMessagesRequest, opts ...grpc.CallOption) (ChatService_SubscribeMessagesClient, error) {
	stream, err := c.cc.NewStream(ctx, &ChatService_ServiceDesc.Streams[1], ChatService_SubscribeMessages_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[SubscribeMessagesRequest, MessagesFrame]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
