package identity

import (
	"github.com/sbilibin2017/finanfun/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	GoogleName        = "google"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// NewGoogle creates the Google provider. redirectURL is the full callback URL.
func NewGoogle(clientID, clientSecret, redirectURL string) *Provider {
	return newGoogle(&oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"email", "profile"},
	}, googleUserInfoURL)
}

func newGoogle(cfg *oauth2.Config, userInfoURL string) *Provider {
	return &Provider{
		name:        GoogleName,
		config:      cfg,
		userInfoURL: userInfoURL,
		parse:       parseGoogle,
	}
}

func parseGoogle(body []byte) (*models.ExternalProfile, error) {
	u, err := decode[googleUser](body)
	if err != nil {
		return nil, err
	}
	return &models.ExternalProfile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.Picture,
		Verified:  u.VerifiedEmail,
	}, nil
}
