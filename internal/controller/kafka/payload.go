package kafka

import "github.com/google/uuid"

// TicketEventPayload mirrors the outbox payload written on ticket creation.
type TicketEventPayload struct {
	ID       uuid.UUID `json:"id"`
	OwnerUID string    `json:"owner_uid"`
	Sector   string    `json:"sector"`
	Room     string    `json:"room"`
	Severity string    `json:"severity"`
	Status   string    `json:"status"`
}
