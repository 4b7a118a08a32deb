package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sfbridge/login-bridge/routing"
)

func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.FormValue("state")
		code := r.FormValue("code")

		if code == "" {
			s.internalError(w, r, errors.New("callback missing code parameter"))
			return
		}

		decision, err := routing.Decide(r.Host, state, code)
		if err != nil {
			s.internalError(w, r, err)
			return
		}

		// Another instance started this flow; hand the callback over with
		// state and code untouched.
		if !decision.Local {
			http.Redirect(w, r, decision.ForwardURL, http.StatusFound)
			return
		}

		// The authorization code is single-use, so the exchange is never
		// retried. Any failure ends the flow.
		exchangeCtx, cancel := context.WithTimeout(r.Context(), s.config.GetExchangeTimeout())
		identity, err := s.idp.Exchange(exchangeCtx, code)
		cancel()
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		log.Info().Str("subject", identity.Subject).Str("email", identity.Email).Msg("Provider exchange succeeded")

		credentialFile, cleanup, err := s.credentials.Materialize(s.config.GetInstanceName())
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		defer cleanup()

		sessionURL, err := s.sessions.Exchange(r.Context(), credentialFile)
		if err != nil {
			s.internalError(w, r, err)
			return
		}

		http.Redirect(w, r, sessionURL, http.StatusFound)
	}
}
