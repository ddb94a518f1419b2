package entity

// Status is the lifecycle of an outbox event.
type Status string

const (
	Pending    Status = "pending"
	Processing Status = "processing"
	Processed  Status = "processed"
	Failed     Status = "failed"
)

// TicketStatus is the lifecycle of a ticket record. This service only ever
// creates tickets; status transitions belong to an administrative surface.
type TicketStatus string

const (
	TicketOpen TicketStatus = "aberto"
)

// Severity values accepted by the intake form. Unrecognized values are kept
// as-is and styled as critical by the view.
const (
	SeverityLow      = "baixa"
	SeverityMedium   = "media"
	SeverityHigh     = "alta"
	SeverityCritical = "critica"
)
