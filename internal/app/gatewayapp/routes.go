package gatewayapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yogaheristya/ruas-console/internal/config"
	mapviewsvc "github.com/yogaheristya/ruas-console/internal/services/mapview"
	sessionsvc "github.com/yogaheristya/ruas-console/internal/services/session"
	tokensvc "github.com/yogaheristya/ruas-console/internal/services/token"
	"github.com/yogaheristya/ruas-console/internal/transport/http/handlers"
	"github.com/yogaheristya/ruas-console/internal/upstream"
)

type Dependencies struct {
	Upstream   *upstream.Client
	Sessions   *sessionsvc.Manager
	Tokens     *tokensvc.Validator
	MapService *mapviewsvc.Service
	Pages      *PageHandler
	Logger     *zap.Logger
	Config     config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Upstream, deps.Sessions, deps.Logger)
	healthHandler := handlers.NewHealthHandler()
	ruasHandler := handlers.NewRuasHandler(deps.Upstream, deps.Sessions, deps.Config.Listing, deps.Logger)
	unitHandler := handlers.NewUnitHandler(deps.Upstream, deps.Sessions, deps.Logger)
	mapHandler := handlers.NewMapHandler(deps.MapService, deps.Sessions, deps.Logger)
	gateMW := SessionGate(deps.Sessions, deps.Tokens, deps.Logger)
	sessionMW := RequireSession(deps.Sessions)

	r.Get("/healthz", healthHandler.Get)

	r.Group(func(r chi.Router) {
		r.Use(gateMW)
		r.Get("/", deps.Pages.Root)
		r.Get("/login", deps.Pages.Login)
		// Wildcards keep the gate in front of every section subpath;
		// the shells own their own client-side routing below that.
		r.Get("/dashboard", deps.Pages.Dashboard)
		r.Get("/dashboard/*", deps.Pages.Dashboard)
		r.Get("/master-data", deps.Pages.MasterData)
		r.Get("/master-data/*", deps.Pages.MasterData)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(sessionMW)
			r.Get("/ruas", ruasHandler.List)
			r.Post("/ruas", ruasHandler.Create)
			r.Get("/ruas/{id}", ruasHandler.Detail)
			r.Put("/ruas/{id}", ruasHandler.Update)
			r.Delete("/ruas/{id}", ruasHandler.Delete)
			r.Get("/unit", unitHandler.List)
			r.Get("/map/features", mapHandler.Features)
		})
	})
}
