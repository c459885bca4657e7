package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrEmptyMessage         = fmt.Errorf("message text is empty")
	ErrNoTarget             = fmt.Errorf("no valid partner selected")
	ErrNotParticipant       = fmt.Errorf("user not participant")
	ErrSendFailed           = fmt.Errorf("message could not be sent")
	ErrProfileNotFound      = fmt.Errorf("profile not found")
	ErrConversationNotFound = fmt.Errorf("conversation not found")
	ErrSubscriptionFailed   = fmt.Errorf("live subscription failed")
	ErrUnauthenticated      = fmt.Errorf("unauthenticated")
)

// MapToGRPCError translates domain errors into gRPC status errors.
// Errors already carrying a status are returned untouched.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrNoTarget):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrNotParticipant):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrConversationNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrSendFailed), errors.Is(err, ErrSubscriptionFailed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
