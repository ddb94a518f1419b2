package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maintdesk/ticket-intake/config"
	"github.com/maintdesk/ticket-intake/internal/infrastructure"
	"github.com/maintdesk/ticket-intake/internal/usecase"
	"github.com/maintdesk/ticket-intake/pkg/logger"
)

func NewTicketRoutes(
	apiV1Group fiber.Router,
	tkt usecase.TicketUseCase,
	feed usecase.LiveFeedUseCase,
	codec infrastructure.PhotoCodec,
	photoCfg config.Photo,
	l logger.Interface,
) {
	r := &V1{tkt: tkt, feed: feed, codec: codec, photoCfg: photoCfg, logger: l}

	{
		apiV1Group.Post("/tickets", r.submitTicket)
		apiV1Group.Get("/tickets", r.listTickets)
		apiV1Group.Get("/tickets/feed", r.streamTickets)
	}
}
