package chat

const (
	FallbackDisplayName = "Alumni member"
	FallbackAvatarRef   = "/static/avatar-placeholder.png"
)

// Profile is the display projection of a participant.
// It is owned by the profile store, the chat core only reads it.
type Profile struct {
	ID          string `validate:"required"`
	DisplayName string
	AvatarRef   string
	Title       string
}

// FallbackProfile is used whenever a participant profile can't be read.
func FallbackProfile(id string) Profile {
	return Profile{
		ID:          id,
		DisplayName: FallbackDisplayName,
		AvatarRef:   FallbackAvatarRef,
	}
}

// IsFallback reports whether p is a placeholder rather than a stored record.
func (p Profile) IsFallback() bool {
	return p.DisplayName == FallbackDisplayName && p.AvatarRef == FallbackAvatarRef
}
