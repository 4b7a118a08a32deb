package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sfbridge/login-bridge/clisession"
	"github.com/sfbridge/login-bridge/credential"
	"github.com/sfbridge/login-bridge/idp"
	"github.com/sfbridge/login-bridge/internal/config"
)

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	idp         *idp.Client
	credentials *credential.Materializer
	sessions    *clisession.Exchanger
}

// New wires the provider client, the credential materializer and the CLI
// exchanger into the front door. A nil runner selects the real subprocess
// runner; tests inject a fake.
func New(ctx context.Context, config config.Config, runner clisession.Runner) (*Server, error) {
	idpClient, err := idp.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create provider client: %w", err)
	}

	s := &Server{
		mux:         http.NewServeMux(),
		config:      config,
		idp:         idpClient,
		credentials: credential.NewMaterializer(config.GetCredential(), config.GetDataFolder()),
		sessions:    clisession.NewExchanger(config.GetCliTool(), config.GetExchangeTimeout(), runner),
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s", displayMethod, path)
}
