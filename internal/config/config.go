package config

import "fmt"

type Config interface {
	EnvConfig
	ProviderConfig
	BridgeConfig
}

type mainConfig struct {
	EnvVars
	Provider
	Bridge
}

func New() Config {
	return mainConfig{}
}

// Validate checks the mandatory configuration at startup. The bridge refuses
// to boot with a partially configured provider rather than failing on the
// first callback.
func Validate(c Config) error {
	if c.GetInstanceName() == "" {
		return fmt.Errorf("INSTANCE_NAME must be set")
	}
	if c.GetClientID() == "" {
		return fmt.Errorf("OAUTH_CLIENT_ID must be set")
	}
	if c.GetClientSecret() == "" {
		return fmt.Errorf("OAUTH_CLIENT_SECRET must be set")
	}
	if c.GetIssuerURL() == "" && (c.GetLoginURL() == "" || c.GetTokenURL() == "") {
		return fmt.Errorf("either OAUTH_ISSUER_URL or both OAUTH_LOGIN_URL and OAUTH_TOKEN_URL must be set")
	}
	return nil
}
