package identity

import (
	"github.com/sbilibin2017/finanfun/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const (
	FacebookName        = "facebook"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name,email,picture"
)

type facebookUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// NewFacebook creates the Facebook provider.
func NewFacebook(clientID, clientSecret, redirectURL string) *Provider {
	return newFacebook(&oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     facebook.Endpoint,
		Scopes:       []string{"email", "public_profile"},
	}, facebookUserInfoURL)
}

func newFacebook(cfg *oauth2.Config, userInfoURL string) *Provider {
	return &Provider{
		name:        FacebookName,
		config:      cfg,
		userInfoURL: userInfoURL,
		parse:       parseFacebook,
	}
}

// Graph only returns confirmed addresses, so a present email counts as verified.
func parseFacebook(body []byte) (*models.ExternalProfile, error) {
	u, err := decode[facebookUser](body)
	if err != nil {
		return nil, err
	}
	return &models.ExternalProfile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.Picture.Data.URL,
		Verified:  u.Email != "",
	}, nil
}
