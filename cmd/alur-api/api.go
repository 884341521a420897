// Package main provides the alur admin API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/arthadana/alur/pkg/persistence"
	"github.com/arthadana/alur/pkg/web"
)

type API struct {
	logger     *slog.Logger
	store      persistence.Persistence
	dispatcher web.TransitionDispatcher
	recaller   web.RecordRecaller
	validate   *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	store persistence.Persistence,
	dispatcher web.TransitionDispatcher,
	recaller web.RecordRecaller,
) *API {
	return &API{
		logger:     logger,
		store:      store,
		dispatcher: dispatcher,
		recaller:   recaller,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.store, a.dispatcher, a.recaller, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		DisableColors: true,
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("alur API")
	})

	handlers.Register(app)

	return app
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}
