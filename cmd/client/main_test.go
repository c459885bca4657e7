package main

import (
	"alumni-chat/mocks"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestReportUnavailable(t *testing.T) {
	t.Run("should notify when a watch breaks", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := mocks.NewMockNotifier(ctrl)

		notifier.EXPECT().Notify("Conversation unavailable: stream reset").Times(1)

		reportUnavailable(notifier, "Conversation", errors.New("stream reset"))
	})

	t.Run("should stay silent when the watch ended normally", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := mocks.NewMockNotifier(ctrl)

		notifier.EXPECT().Notify(gomock.Any()).Times(0)

		reportUnavailable(notifier, "Conversation", nil)
	})
}
