// Package clisession exchanges a materialized credential for a one-time
// login URL by driving the external session CLI.
package clisession

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sfbridge/login-bridge/internal/errors"
)

// Exchanger runs the session CLI twice per request: store the credential
// under a fresh alias, then ask for the one-time login URL of that alias.
// The alias is unique per request so concurrent callbacks never collide on
// the CLI's credential store.
type Exchanger struct {
	tool    string
	timeout time.Duration
	runner  Runner
}

func NewExchanger(tool string, timeout time.Duration, runner Runner) *Exchanger {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Exchanger{tool: tool, timeout: timeout, runner: runner}
}

// openSessionResult is the JSON shape of a successful open-session call.
type openSessionResult struct {
	Result struct {
		URL string `json:"url"`
	} `json:"result"`
}

// Exchange stores the credential at credentialFile and returns the one-time
// login URL. The two CLI invocations are strictly sequential: open-session
// depends on store-credential's side effect. Neither step is retried.
func (e *Exchanger) Exchange(ctx context.Context, credentialFile string) (string, error) {
	alias := "bridge-" + uuid.New().String()

	out, err := e.run(ctx, "store-credential", "--alias", alias, "--file", credentialFile, "--json")
	if err != nil {
		if errors.Is(err, errors.ErrTimeout) {
			return "", err
		}
		return "", errors.Wrapf(errors.ErrCliStore, "%v", err)
	}
	// Output is only checked for well-formedness; store-credential reports
	// its result through the exit code.
	if !json.Valid(out) {
		return "", errors.Wrapf(errors.ErrCliStore, "store-credential emitted invalid JSON")
	}
	log.Debug().Str("alias", alias).Msg("Credential stored")

	out, err = e.run(ctx, "open-session", "--alias", alias, "--url-only", "--json")
	if err != nil {
		if errors.Is(err, errors.ErrTimeout) {
			return "", err
		}
		return "", errors.Wrapf(errors.ErrCliOpen, "%v", err)
	}

	var result openSessionResult
	if err := json.Unmarshal(out, &result); err != nil {
		return "", errors.Wrapf(errors.ErrCliOpen, "open-session emitted invalid JSON")
	}
	if result.Result.URL == "" {
		return "", errors.Wrapf(errors.ErrCliOpen, "open-session output has no result.url")
	}

	return result.Result.URL, nil
}

// run invokes the tool once under its own deadline, so a hung second step
// cannot hide behind time left over from the first.
func (e *Exchanger) run(ctx context.Context, args ...string) ([]byte, error) {
	stepCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := e.runner.Run(stepCtx, e.tool, args...)
	if err != nil && stepCtx.Err() == context.DeadlineExceeded {
		return nil, errors.Wrapf(errors.ErrTimeout, "%s: %v", args[0], err)
	}
	return out, err
}
