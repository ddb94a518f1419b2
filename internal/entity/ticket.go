package entity

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	ID uuid.UUID `json:"id"`

	OwnerUID   string `json:"owner_uid"`
	OwnerEmail string `json:"owner_email"`
	OwnerName  string `json:"owner_name"`

	Sector      string `json:"sector"`
	Room        string `json:"room"`
	Description string `json:"description"`
	Severity    string `json:"severity"`

	Photo  PhotoRef     `json:"photo"`
	Status TicketStatus `json:"status"`

	// CreatedAt is assigned by the store, never by the client. Nil means the
	// record has not been acknowledged by the server yet.
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
