// Package server wires configuration, storage and services together and
// runs the site's HTTP server next to the admin gRPC server until a
// termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/yatube/internal/logging"
	"github.com/dmitrijs2005/yatube/internal/server/config"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/yatube/internal/server/services"
	"github.com/dmitrijs2005/yatube/internal/server/storage"
	"github.com/dmitrijs2005/yatube/internal/server/web"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/yatube/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	handler     http.Handler
}

var openDB = sql.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	db, err := openDB("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	images, err := storage.NewS3Store(ctx, storage.S3Config{
		Region:    c.S3Region,
		AccessKey: c.S3RootUser,
		SecretKey: c.S3RootPassword,
		Bucket:    c.S3Bucket,
		Endpoint:  c.S3BaseEndpoint,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	ps := services.NewPostService(db, m, images, c)
	fs := services.NewFollowService(db, m, c)
	us := services.NewUserService(db, m, c)

	gin.SetMode(gin.ReleaseMode)
	router, err := web.NewRouter(web.NewHandler(ps, fs, us, images, web.HTMLRenderer{}, logger))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("templates: %w", err)
	}

	return &App{config: c, logger: logger, db: db, repomanager: m, handler: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := web.NewServer(app.config.EndpointAddrHTTP, app.handler, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewAdminServer(app.config.EndpointAddrGRPC, app.logger, app.db)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run applies pending migrations, then serves until ctx is cancelled, a
// signal arrives or either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.db.Close()
		return fmt.Errorf("migrations: %w", err)
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return app.db.Close()
}
