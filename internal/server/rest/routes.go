package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// apiVersions are the path prefixes serving the user API. Both expose the
// same handlers.
var apiVersions = []string{"/v1", "/v2"}

// Routes builds the router. Unsupported methods on a known path, HEAD and
// OPTIONS included, get an empty 405 before any handler or auth runs.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	r.Get("/healthz", s.instrument("healthCheck", s.healthCheck))
	r.Get("/verify", s.instrument("verify", s.verifyEmail))

	for _, prefix := range apiVersions {
		r.Route(prefix, func(r chi.Router) {
			r.Post("/user", s.instrument("createUser", s.createUser))

			r.Group(func(r chi.Router) {
				r.Use(s.authenticate)
				if s.opts.RequireVerifiedEmail {
					r.Use(s.requireVerifiedEmail)
				}

				r.Get("/user/self", s.instrument("getUserInfo", s.getUserInfo))
				r.Put("/user/self", s.instrument("updateUser", s.updateUser))

				r.Post("/user/self/pic", s.instrument("addProfilePic", s.addProfilePic))
				r.Get("/user/self/pic", s.instrument("getProfilePic", s.getProfilePic))
				r.Delete("/user/self/pic", s.instrument("deleteProfilePic", s.deleteProfilePic))
			})
		})
	}

	return r
}

// instrument counts calls to an endpoint and records their latency.
func (s *Server) instrument(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementAPICount(name)
		start := time.Now()
		defer func() { s.metrics.RecordAPITime(name, time.Since(start)) }()
		h(w, r)
	}
}
