package config

import "strings"

// ProviderConfig describes the external identity provider. Either an OIDC
// issuer URL (endpoints discovered) or an explicit login/token endpoint pair
// must be configured.
type ProviderConfig interface {
	GetIssuerURL() string
	GetLoginURL() string
	GetTokenURL() string
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetScopes() []string
}

type Provider struct{}

var _ ProviderConfig = Provider{}

func (Provider) GetIssuerURL() string {
	return GetEnv("OAUTH_ISSUER_URL", "")
}

func (Provider) GetLoginURL() string {
	return GetEnv("OAUTH_LOGIN_URL", "")
}

func (Provider) GetTokenURL() string {
	return GetEnv("OAUTH_TOKEN_URL", "")
}

func (Provider) GetClientID() string {
	return GetEnv("OAUTH_CLIENT_ID", "")
}

func (Provider) GetClientSecret() string {
	return GetEnv("OAUTH_CLIENT_SECRET", "")
}

func (p Provider) GetRedirectURI() string {
	return GetEnv("OAUTH_REDIRECT_URI", EnvVars{}.GetBaseURL()+"/oauth2/callback")
}

func (Provider) GetScopes() []string {
	return strings.Fields(GetEnv("OAUTH_SCOPES", "openid"))
}
