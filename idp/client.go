// Package idp wraps the external identity provider's authorization-code
// flow: building the authorization URL and exchanging the callback code.
package idp

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/sfbridge/login-bridge/internal/config"
	"github.com/sfbridge/login-bridge/internal/errors"
	"github.com/sfbridge/login-bridge/routing"
	"golang.org/x/oauth2"
)

// Identity is the provider-reported identity of the authenticated user.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Client is an immutable provider client configured once at startup and
// shared by every request handler.
type Client struct {
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier // nil in static-endpoint mode
	origin       string
}

// New builds the provider client. When an issuer URL is configured the
// provider's endpoints are discovered and ID tokens are verified against its
// keys; otherwise the configured login/token endpoints are used directly.
func New(ctx context.Context, c config.Config) (*Client, error) {
	client := &Client{
		origin: c.GetBaseURL(),
		oauth2Config: &oauth2.Config{
			ClientID:     c.GetClientID(),
			ClientSecret: c.GetClientSecret(),
			RedirectURL:  c.GetRedirectURI(),
			Scopes:       c.GetScopes(),
		},
	}

	if issuer := c.GetIssuerURL(); issuer != "" {
		provider, err := oidc.NewProvider(ctx, issuer)
		if err != nil {
			return nil, fmt.Errorf("[idp New] provider discovery for %s: %w", issuer, err)
		}
		client.oauth2Config.Endpoint = provider.Endpoint()
		client.verifier = provider.Verifier(&oidc.Config{ClientID: c.GetClientID()})
		return client, nil
	}

	client.oauth2Config.Endpoint = oauth2.Endpoint{
		AuthURL:  c.GetLoginURL(),
		TokenURL: c.GetTokenURL(),
	}
	return client, nil
}

// AuthCodeURL returns the provider's authorization endpoint URL. The state
// parameter is the JSON-encoded redirect target naming this instance's own
// origin, so whichever instance receives the callback can route it back.
func (c *Client) AuthCodeURL() (string, error) {
	state, err := routing.NewState(c.origin).Encode()
	if err != nil {
		return "", err
	}
	return c.oauth2Config.AuthCodeURL(state), nil
}

// Exchange swaps the authorization code for tokens and extracts the user's
// identity. The code is single-use, so a failed exchange is never retried.
func (c *Client) Exchange(ctx context.Context, code string) (Identity, error) {
	token, err := c.oauth2Config.Exchange(ctx, code)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Identity{}, errors.Wrapf(errors.ErrTimeout, "provider exchange: %v", err)
		}
		return Identity{}, errors.Wrapf(errors.ErrProviderExchange, "%v", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		// Plain OAuth2 providers may not return an ID token. The exchange
		// itself succeeded, which is all the bridge needs to proceed.
		return Identity{}, nil
	}

	if c.verifier != nil {
		return c.verifiedIdentity(ctx, rawIDToken)
	}
	return unverifiedIdentity(rawIDToken), nil
}

func (c *Client) verifiedIdentity(ctx context.Context, rawIDToken string) (Identity, error) {
	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Identity{}, errors.Wrapf(errors.ErrProviderExchange, "id token verification: %v", err)
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return Identity{}, errors.Wrapf(errors.ErrProviderExchange, "id token claims: %v", err)
	}
	return Identity{Subject: idToken.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// unverifiedIdentity decodes ID token claims without signature verification.
// In static-endpoint mode there is no discovered key set to verify against;
// the identity is used for server-side logging only, and trust in the login
// comes from the direct token-endpoint exchange.
func unverifiedIdentity(rawIDToken string) Identity {
	var claims struct {
		jwt.RegisteredClaims
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, &claims); err != nil {
		log.Debug().Err(err).Msg("Could not decode id token claims")
		return Identity{}
	}
	return Identity{Subject: claims.Subject, Email: claims.Email, Name: claims.Name}
}
