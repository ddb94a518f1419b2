package v1

import (
	"github.com/maintdesk/ticket-intake/config"
	"github.com/maintdesk/ticket-intake/internal/infrastructure"
	"github.com/maintdesk/ticket-intake/internal/usecase"
	"github.com/maintdesk/ticket-intake/pkg/logger"
)

type V1 struct {
	tkt      usecase.TicketUseCase
	feed     usecase.LiveFeedUseCase
	codec    infrastructure.PhotoCodec
	photoCfg config.Photo
	logger   logger.Interface
}
