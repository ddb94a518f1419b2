package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/maintdesk/ticket-intake/config"
	v1 "github.com/maintdesk/ticket-intake/internal/controller/restapi/v1"
	"github.com/maintdesk/ticket-intake/internal/infrastructure"
	"github.com/maintdesk/ticket-intake/internal/infrastructure/identity"
	"github.com/maintdesk/ticket-intake/internal/usecase"
	"github.com/maintdesk/ticket-intake/pkg/logger"
)

// @title Maintenance ticket intake
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(
	app *fiber.App,
	cfg *config.Config,
	tkt usecase.TicketUseCase,
	feed usecase.LiveFeedUseCase,
	codec infrastructure.PhotoCodec,
	verifier *identity.Verifier,
	l logger.Interface,
) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	apiV1Group := app.Group("/v1", v1.AuthMiddleware(verifier))
	{
		v1.NewTicketRoutes(apiV1Group, tkt, feed, codec, cfg.Photo, l)
	}
}
