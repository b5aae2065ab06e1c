// Package identity implements the OAuth authorization code flow against the
// supported social login providers.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/models"
	"golang.org/x/oauth2"
)

// ErrProfileIncomplete is returned when the provider does not return a user id.
var ErrProfileIncomplete = errors.New("provider profile is missing an id")

const maxProfileBytes = 1 << 20

// Provider exchanges authorization codes and fetches the user's profile.
type Provider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
	parse       func(body []byte) (*models.ExternalProfile, error)
}

// Name returns the provider name stored on linked users.
func (p *Provider) Name() string {
	return p.name
}

// AuthCodeURL returns the consent page URL carrying state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades code for a token and loads the user's profile with it.
func (p *Provider) Exchange(ctx context.Context, code string) (*models.ExternalProfile, error) {
	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		logger.Log.Errorw("oauth code exchange failed", "provider", p.name, "error", err)
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		logger.Log.Errorw("oauth profile request failed", "provider", p.name, "error", err)
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBytes))
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logger.Log.Errorw("oauth profile request rejected", "provider", p.name, "status", resp.StatusCode)
		return nil, fmt.Errorf("fetch profile: unexpected status %d", resp.StatusCode)
	}

	profile, err := p.parse(body)
	if err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if profile.ID == "" {
		return nil, ErrProfileIncomplete
	}
	profile.Provider = p.name

	logger.Log.Infow("oauth profile fetched", "provider", p.name, "provider_id", profile.ID)
	return profile, nil
}

func decode[T any](body []byte) (T, error) {
	var v T
	err := json.Unmarshal(body, &v)
	return v, err
}
