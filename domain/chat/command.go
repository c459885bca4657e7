package chat

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SendMessageCommand is the intent of SenderID to post Text to PartnerID.
type SendMessageCommand struct {
	ConversationID ConversationID `validate:"required"`
	SenderID       string         `validate:"required"`
	PartnerID      string         `validate:"required,nefield=SenderID"`
	Text           string
}

// TrimmedText is the text that will be stored.
func (c SendMessageCommand) TrimmedText() string {
	return strings.TrimSpace(c.Text)
}

// ValidateTarget checks that a valid partner is selected.
func (c SendMessageCommand) ValidateTarget() error {
	return validate.Struct(c)
}

// ValidateProfile checks a profile before it is written to the store.
func ValidateProfile(p Profile) error {
	return validate.Struct(p)
}
