// Package handler assembles the HTTP surface of the service.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	characterhandler "github.com/deadinside/backend/internal/handler/character"
	chathandler "github.com/deadinside/backend/internal/handler/chat"
	speechhandler "github.com/deadinside/backend/internal/handler/speech"
	"github.com/deadinside/backend/internal/middleware"
	"github.com/deadinside/backend/internal/service/catalog"
	"github.com/deadinside/backend/internal/service/session"
	speechsvc "github.com/deadinside/backend/internal/service/speech"
	"github.com/deadinside/backend/internal/store"
	"github.com/deadinside/backend/pkg/utils"
)

// NewRouter wires the middleware stack and every API route. The speech
// service may be nil when no speech credentials are configured; its routes
// then answer 503.
func NewRouter(
	sessions *session.Service,
	catalogSvc *catalog.Service,
	speech *speechsvc.Service,
	characters *store.Characters,
	admin *store.Admin,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		chathandler.New(sessions, admin).RegisterRoutes(api)
		characterhandler.New(catalogSvc).RegisterRoutes(api)

		if speech != nil {
			speechhandler.New(speech, sessions, characters).RegisterRoutes(api)
		} else {
			api.Handle("/speech/*", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondError(w, http.StatusServiceUnavailable, "speech is not configured")
			}))
		}
	})

	return r
}
