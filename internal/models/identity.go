package models

// ExternalProfile is the identity returned by an OAuth provider.
type ExternalProfile struct {
	Provider  string
	ID        string
	Email     string
	Name      string
	AvatarURL string
	Verified  bool
}
