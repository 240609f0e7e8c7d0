package gatewayapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yogaheristya/ruas-console/internal/config"
	"github.com/yogaheristya/ruas-console/internal/infra/httpclient"
	redrepo "github.com/yogaheristya/ruas-console/internal/repo/redis"
	mapviewsvc "github.com/yogaheristya/ruas-console/internal/services/mapview"
	roadsnapsvc "github.com/yogaheristya/ruas-console/internal/services/roadsnap"
	sessionsvc "github.com/yogaheristya/ruas-console/internal/services/session"
	tokensvc "github.com/yogaheristya/ruas-console/internal/services/token"
	"github.com/yogaheristya/ruas-console/internal/upstream"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(_ context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	upstreamClient := upstream.NewClient(cfg.Upstream.BaseURL, httpclient.New(cfg.Upstream.Timeout))

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	routeCache := redrepo.NewRouteCacheRepo(redisClient)
	snapService := roadsnapsvc.NewService(cfg.Routing, httpclient.New(cfg.Routing.Timeout), routeCache, log)
	mapService := mapviewsvc.NewService(upstreamClient, snapService, cfg.Map, cfg.Listing.MapPerPage, log)

	sessions := sessionsvc.NewManager(cfg.Session.CookieName, cfg.SecureCookies())
	tokens := tokensvc.NewValidator()

	pages, err := NewPageHandler(log)
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		Upstream:   upstreamClient,
		Sessions:   sessions,
		Tokens:     tokens,
		MapService: mapService,
		Pages:      pages,
		Logger:     log,
		Config:     cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("gateway server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
