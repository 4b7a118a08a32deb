package config

import "time"

// BridgeConfig covers the credential hand-off and the session CLI.
type BridgeConfig interface {
	GetCredential() string
	GetCliTool() string
	GetExchangeTimeout() time.Duration
}

type Bridge struct{}

var _ BridgeConfig = Bridge{}

// GetCredential returns the pre-provisioned credential connection string, if
// any. When empty the bridge falls back to the per-instance credential file.
func (Bridge) GetCredential() string {
	return GetEnv("AUTH_URL_CREDENTIAL", "")
}

func (Bridge) GetCliTool() string {
	return GetEnv("CLI_TOOL", "orgcli")
}

// GetExchangeTimeout bounds the provider exchange and each CLI invocation.
func (Bridge) GetExchangeTimeout() time.Duration {
	d, err := time.ParseDuration(GetEnv("EXCHANGE_TIMEOUT", "30s"))
	if err != nil {
		return 30 * time.Second
	}
	return d
}
