package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/curatorhq/curator/pkg/auth"
	"github.com/curatorhq/curator/pkg/content"
	"github.com/curatorhq/curator/pkg/httputil"
	"github.com/curatorhq/curator/pkg/middleware"
	"github.com/curatorhq/curator/pkg/observability"
)

// Server is the HTTP front-end over the auth core and the content domain.
type Server struct {
	router  *mux.Router
	log     *logrus.Logger
	metrics *observability.Metrics

	authHandlers    *AuthHandlers
	articleHandlers *ArticleHandlers
}

// NewServer creates the API server and wires up all routes.
func NewServer(authService *auth.Service, contentService *content.Service, metrics *observability.Metrics, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}

	s := &Server{
		router:          mux.NewRouter(),
		log:             log,
		metrics:         metrics,
		authHandlers:    NewAuthHandlers(authService, log),
		articleHandlers: NewArticleHandlers(contentService, log),
	}

	s.setupRoutes(authService)
	return s
}

func (s *Server) setupRoutes(authService *auth.Service) {
	s.router.Use(httputil.RequestIDMiddleware)
	s.router.Use(httputil.LoggingMiddleware(s.log))
	s.router.Use(httputil.RecoveryMiddleware(s.log))

	// Unauthenticated routes.
	s.router.HandleFunc("/auth/login", s.authHandlers.login).Methods("POST")
	s.router.HandleFunc("/healthz", s.healthz).Methods("GET")
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	}

	// Everything else requires a valid session.
	authMW := middleware.NewAuth(authService, s.log)

	authed := s.router.PathPrefix("/").Subrouter()
	authed.Use(authMW.Handler)

	authed.HandleFunc("/auth/logout", s.authHandlers.logout).Methods("POST")
	authed.HandleFunc("/auth/whoami", s.authHandlers.whoami).Methods("GET")
	authed.HandleFunc("/auth/sessions", s.authHandlers.listSessions).Methods("GET")

	// User management. The service gates these on ManageUsers as well;
	// the middleware just rejects earlier with a cleaner error. Wrapped
	// per route rather than via a subrouter so the self-service password
	// route below can share the /auth/users prefix.
	requireAdmin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}
	authed.Handle("/auth/users", requireAdmin(s.authHandlers.createUser)).Methods("POST")
	authed.Handle("/auth/users", requireAdmin(s.authHandlers.listUsers)).Methods("GET")
	authed.Handle("/auth/users/{id:[0-9]+}", requireAdmin(s.authHandlers.deactivateUser)).Methods("DELETE")

	// Password change is self-service, so it sits outside the admin gate.
	authed.HandleFunc("/auth/users/{id:[0-9]+}/password", s.authHandlers.changePassword).Methods("PUT")

	s.articleHandlers.RegisterRoutes(authed)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"status": "ok"})
}
