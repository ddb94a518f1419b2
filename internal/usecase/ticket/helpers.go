package ticket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maintdesk/ticket-intake/internal/entity"
)

func createOutboxEvent(ticket *entity.Ticket) (*entity.OutboxEvent, error) {
	payload := map[string]interface{}{
		"id":        ticket.ID,
		"owner_uid": ticket.OwnerUID,
		"sector":    ticket.Sector,
		"room":      ticket.Room,
		"severity":  ticket.Severity,
		"status":    ticket.Status,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("createOutboxEvent - json.Marshal: %w", err)
	}

	return &entity.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: ticket.ID,
		Payload:     b,
		Status:      entity.Pending,
		CreatedAt:   time.Now(),
		RetryCount:  0,
	}, nil
}
