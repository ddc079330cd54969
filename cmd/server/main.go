package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-router"
	mflash "github.com/goliatone/go-router/middleware/flash"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	portal "github.com/openexams/portal"
	"github.com/openexams/portal/middleware/csrf"
)

type App struct {
	config *Config
	bunDB  *bun.DB
	auth   *portal.Auther
	auther *portal.RouteAuthenticator
	repo   portal.RepositoryManager
	srv    router.Server[*fiber.App]
}

func main() {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}

	app := &App{config: cfg}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithHTTPAuth(ctx, app); err != nil {
		log.Fatal(err)
	}

	ProtectedRoutes(app)

	app.srv.Serve(cfg.Addr)

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.config.DSN)
	if err != nil {
		return err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := portal.RunMigrations(ctx, db); err != nil {
		return err
	}

	app.bunDB = db
	app.repo = portal.NewRepositoryManager(db)

	return app.repo.Validate()
}

func WithHTTPServer(ctx context.Context, app *App) error {
	engine := django.New(app.config.ViewsDir, ".html")

	for name, fn := range portal.TemplateHelpers() {
		engine.AddFunc(name, fn)
	}
	engine.AddFunc("roles", portal.TemplateRoles)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			StrictRouting:     false,
			PassLocalsToViews: true,
			Views:             engine,
		}))
	})

	srv.Router().Use(mflash.New(mflash.ConfigDefault))

	if app.config.CSRFEnabled {
		srv.Router().Use(csrf.New(csrf.Config{
			SecureKey: []byte(app.config.SigningKey),
		}))
	}

	srv.Router().Static("/", app.config.PublicDir, router.Static{})

	app.srv = srv

	return nil
}

func WithHTTPAuth(ctx context.Context, app *App) error {
	cfg := app.config

	userProvider := portal.NewUserProvider(app.repo.Users())

	authenticator := portal.NewAuthenticator(userProvider, cfg)
	app.auth = authenticator

	httpAuth, err := portal.NewHTTPAuthenticator(authenticator, cfg)
	if err != nil {
		return err
	}

	app.auther = httpAuth

	portal.RegisterAuthRoutes(app.srv.Router().Group("/"),
		portal.WithAuthControllerRepo(app.repo),
		portal.WithAuthControllerAuther(httpAuth),
	)

	return nil
}

func ProtectedRoutes(app *App) {
	importer := portal.NewExamImporter(app.repo, portal.ExamImporterConfig{
		FeedURL: app.config.ExamFeedURL,
	})

	portal.RegisterExamRoutes(app.srv.Router().Group("/"),
		portal.WithExamControllerRepo(app.repo),
		portal.WithExamControllerAuther(app.auther),
		portal.WithExamControllerImporter(importer),
		portal.WithExamControllerContextKey(app.config.GetContextKey()),
	)

	// authenticated realtime channel; connection lifecycle is just logged
	wsAuth := app.auth.NewWSAuthMiddleware()
	wsHandler := router.ChainWSMiddleware(
		router.NewWSRecover(),
		router.NewWSLogger(),
		wsAuth,
	)(func(ctx context.Context, client router.WSClient) error {
		claims, ok := portal.WSAuthClaimsFromContext(ctx)
		if ok {
			log.Printf("client connected: user=%s role=%s", claims.UserID(), claims.Role())
		}

		for {
			messageType, data, err := client.Conn().ReadMessage()
			if err != nil {
				log.Printf("client disconnected: %v", err)
				break
			}

			if err := client.Conn().WriteMessage(messageType, data); err != nil {
				break
			}
		}

		return nil
	})

	app.srv.Router().Get("/ws", router.NewWSHandler(wsHandler))
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
