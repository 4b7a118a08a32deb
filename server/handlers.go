package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// genericErrorBody is the only failure text a client ever sees. Provider and
// CLI detail stays in the server logs.
const genericErrorBody = "login could not be completed"

// LoginRedirectHandler sends the browser to the provider's authorization
// endpoint with this instance's origin embedded in the state parameter.
func (s *Server) LoginRedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, err := s.idp.AuthCodeURL()
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// internalError is the single convergence point for every failure in the
// login flow: full detail server-side, a fixed uninformative 403 to the
// client.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Err(err).Str("path", r.URL.Path).Str("host", r.Host).Msg("Login flow failed")
	http.Error(w, genericErrorBody, http.StatusForbidden)
}
