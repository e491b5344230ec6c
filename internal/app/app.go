package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskboard/taskboard_server/internal/config"
	"github.com/taskboard/taskboard_server/internal/persist"
	"github.com/taskboard/taskboard_server/internal/rest/handlers"
	"github.com/taskboard/taskboard_server/internal/rest/middleware"
	"github.com/taskboard/taskboard_server/internal/store"
)

// App wires the domain store, the persistence bridge and the HTTP surface.
// Rehydration runs before the commit hook is installed, so restored state is
// never written straight back to the durable medium.
type App struct {
	cfg    *config.Config
	log    *logrus.Entry
	router *gin.Engine
	Store  *store.Store
	Done   chan struct{}
}

func New(cfg *config.Config, log *logrus.Entry) (*App, error) {
	const op = "app.New"

	kv, err := persist.NewFileKV(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	bridge := persist.NewBridge(kv, log.Logger)

	st := store.New()
	if err := bridge.Rehydrate(st); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st.SetCommitHook(bridge.Commit)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID(), gin.Recovery())

	handlers.NewAuthHandler(st, log.Logger).EnrichRoutes(router)
	handlers.NewTaskHandler(st, log.Logger).EnrichRoutes(router)

	return &App{
		cfg:    cfg,
		log:    log,
		router: router,
		Store:  st,
		Done:   make(chan struct{}),
	}, nil
}

// Run starts the HTTP server; Done is closed when it stops.
func (a *App) Run() {
	go func() {
		defer close(a.Done)

		addr := ":" + a.cfg.HTTPPort
		a.log.WithField("addr", addr).Info("http server listening")
		if err := a.router.Run(addr); err != nil {
			a.log.WithError(err).Error("http server stopped")
		}
	}()
}
