// Package routing decides whether this instance should complete an OAuth
// callback or forward it to the sibling instance named in the state value.
package routing

import (
	"encoding/json"
	"net/url"

	"github.com/sfbridge/login-bridge/internal/errors"
)

// State is the authorization state echoed through the provider round-trip.
// It carries the origin of the instance that started the flow so that any
// instance receiving the callback can route it home.
type State struct {
	RedirectURL string `json:"redirectURL"`
}

// NewState builds the state value embedded in the authorization URL.
func NewState(origin string) State {
	return State{RedirectURL: origin}
}

// Encode serialises the state for use as the OAuth state parameter.
func (s State) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrapf(err, "state encode")
	}
	return string(b), nil
}

// Decision is the routing outcome for one callback request.
type Decision struct {
	Local      bool
	ForwardURL string
}

// Decide parses the raw state and compares the hostname of its redirect
// target against the hostname of the inbound request. A match means this
// instance completes the flow; otherwise the callback is forwarded to the
// intended instance with state and code passed through verbatim.
func Decide(requestHost, rawState, code string) (Decision, error) {
	if rawState == "" {
		return Decision{}, errors.Wrapf(errors.ErrMalformedState, "empty state")
	}

	var state State
	if err := json.Unmarshal([]byte(rawState), &state); err != nil {
		return Decision{}, errors.Wrapf(errors.ErrMalformedState, "state is not valid JSON")
	}
	if state.RedirectURL == "" {
		return Decision{}, errors.Wrapf(errors.ErrMalformedState, "state has no redirectURL")
	}

	target, err := url.Parse(state.RedirectURL)
	if err != nil || target.Hostname() == "" {
		return Decision{}, errors.Wrapf(errors.ErrMalformedState, "state redirectURL %q is not a URL", state.RedirectURL)
	}

	if target.Hostname() == hostnameOf(requestHost) {
		return Decision{Local: true}, nil
	}

	// Forward: rewrite the intended origin to the callback path, carrying
	// state and code through unchanged (pass-through, not re-signed).
	target.Path = "/oauth2/callback"
	query := url.Values{}
	query.Set("state", rawState)
	query.Set("code", code)
	target.RawQuery = query.Encode()

	return Decision{ForwardURL: target.String()}, nil
}

// hostnameOf strips any port from an HTTP Host header value.
func hostnameOf(host string) string {
	u := url.URL{Host: host}
	return u.Hostname()
}
