package persistent

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/maintdesk/ticket-intake/internal/entity"
	"github.com/maintdesk/ticket-intake/pkg/postgres"
)

const (
	// Table
	ticketsTable = "tickets"

	// Columns
	idColumn          = "id"
	ownerUIDColumn    = "owner_uid"
	ownerEmailColumn  = "owner_email"
	ownerNameColumn   = "owner_name"
	sectorColumn      = "sector"
	roomColumn        = "room"
	descriptionColumn = "description"
	severityColumn    = "severity"
	photoURLColumn    = "photo_url"
	photoBase64Column = "photo_base64"
	statusColumn      = "status"
	createdAtColumn   = "created_at"
)

type TicketRepo struct {
	*postgres.Postgres
}

func NewTicketRepo(pg *postgres.Postgres) *TicketRepo {
	return &TicketRepo{pg}
}

// Create inserts the ticket and reads back the server-assigned creation
// timestamp. The client never supplies created_at, so record ordering is
// immune to client clock skew.
func (r *TicketRepo) Create(ctx context.Context, ticket *entity.Ticket) error {
	sql, args, err := r.Builder.
		Insert(ticketsTable).
		Columns(
			idColumn,
			ownerUIDColumn,
			ownerEmailColumn,
			ownerNameColumn,
			sectorColumn,
			roomColumn,
			descriptionColumn,
			severityColumn,
			photoURLColumn,
			photoBase64Column,
			statusColumn,
			createdAtColumn,
		).
		Values(
			ticket.ID,
			ticket.OwnerUID,
			ticket.OwnerEmail,
			ticket.OwnerName,
			ticket.Sector,
			ticket.Room,
			ticket.Description,
			ticket.Severity,
			ticket.Photo.URL(),
			ticket.Photo.Inline(),
			ticket.Status,
			squirrel.Expr("now()"),
		).
		Suffix("RETURNING " + createdAtColumn).
		ToSql()
	if err != nil {
		return fmt.Errorf("TicketRepo - Create - r.Builder.ToSql: %w", err)
	}

	// Pool / Tx
	executor := r.GetExecutor(ctx)

	var createdAt time.Time
	err = executor.QueryRow(ctx, sql, args...).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("TicketRepo - Create - executor.QueryRow: %w", err)
	}

	ticket.CreatedAt = &createdAt

	return nil
}

func (r *TicketRepo) ListByOwner(ctx context.Context, ownerUID string) ([]*entity.Ticket, error) {
	sql, args, err := r.Builder.
		Select(
			idColumn,
			ownerUIDColumn,
			ownerEmailColumn,
			ownerNameColumn,
			sectorColumn,
			roomColumn,
			descriptionColumn,
			severityColumn,
			photoURLColumn,
			photoBase64Column,
			statusColumn,
			createdAtColumn,
		).
		From(ticketsTable).
		Where(squirrel.Eq{ownerUIDColumn: ownerUID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("TicketRepo - ListByOwner - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("TicketRepo - ListByOwner - executor.Query: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		var (
			ticket      entity.Ticket
			photoURL    string
			photoInline string
		)

		err = rows.Scan(
			&ticket.ID,
			&ticket.OwnerUID,
			&ticket.OwnerEmail,
			&ticket.OwnerName,
			&ticket.Sector,
			&ticket.Room,
			&ticket.Description,
			&ticket.Severity,
			&photoURL,
			&photoInline,
			&ticket.Status,
			&ticket.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("TicketRepo - ListByOwner - rows.Scan: %w", err)
		}

		ticket.Photo = entity.PhotoRefFromColumns(photoURL, photoInline)
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("TicketRepo - ListByOwner - rows.Err: %w", err)
	}

	return tickets, nil
}
