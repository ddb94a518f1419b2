package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maintdesk/ticket-intake/internal/dto"
	"github.com/maintdesk/ticket-intake/internal/entity"
	"github.com/maintdesk/ticket-intake/internal/infrastructure/processor"
	"github.com/maintdesk/ticket-intake/internal/repo"
	"github.com/maintdesk/ticket-intake/internal/usecase"
	"github.com/maintdesk/ticket-intake/pkg/logger"
)

const _photoContentType = "image/jpeg"

type UseCase struct {
	photoRepo  repo.PhotoRepo
	ticketRepo repo.TicketRepo
	outboxRepo repo.OutboxTicketRepo
	transactor repo.Transactor

	uploadTimeout  time.Duration
	getURLTimeout  time.Duration
	createTimeout  time.Duration
	inlineMaxBytes int

	logger logger.Interface
}

func New(
	photoRepo repo.PhotoRepo,
	ticketRepo repo.TicketRepo,
	outboxRepo repo.OutboxTicketRepo,
	transactor repo.Transactor,
	l logger.Interface,
	uploadTimeout time.Duration,
	getURLTimeout time.Duration,
	createTimeout time.Duration,
	inlineMaxBytes int,
) *UseCase {
	return &UseCase{
		photoRepo:      photoRepo,
		ticketRepo:     ticketRepo,
		outboxRepo:     outboxRepo,
		transactor:     transactor,
		uploadTimeout:  uploadTimeout,
		getURLTimeout:  getURLTimeout,
		createTimeout:  createTimeout,
		inlineMaxBytes: inlineMaxBytes,
		logger:         l,
	}
}

// Submit runs the intake pipeline: validate -> persist photo (object store
// with inline fallback) -> create record. Validation aborts before any I/O.
// Photo persistence never fails the submission: the worst outcome is a
// ticket without its photo. Record creation is the only terminal stage.
func (uc *UseCase) Submit(
	ctx context.Context,
	user entity.User,
	form dto.Submission,
	pendingPhoto string,
) (*usecase.SubmitResult, error) {
	if err := validateSubmission(form); err != nil {
		return nil, fmt.Errorf("TicketUseCase - Submit: %w", err)
	}

	photo := entity.PhotoRef{}
	photoDropped := false

	if processor.IsDataURL(pendingPhoto) {
		photo, photoDropped = uc.persistPhoto(ctx, user.UID, pendingPhoto)
	}

	ticket := &entity.Ticket{
		ID:          uuid.New(),
		OwnerUID:    user.UID,
		OwnerEmail:  user.Email,
		OwnerName:   user.DisplayName,
		Sector:      form.Sector,
		Room:        form.Room,
		Description: form.Description,
		Severity:    form.Severity,
		Photo:       photo,
		Status:      entity.TicketOpen,
	}

	_, err := race(ctx, uc.createTimeout, "salvar chamado", func(ctx context.Context) (struct{}, error) {
		err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := uc.ticketRepo.Create(ctx, ticket); err != nil {
				return fmt.Errorf("TicketUseCase - Submit - uc.ticketRepo.Create: %w", err)
			}

			event, err := createOutboxEvent(ticket)
			if err != nil {
				return fmt.Errorf("TicketUseCase - Submit - createOutboxEvent: %w", err)
			}
			if err := uc.outboxRepo.Create(ctx, event); err != nil {
				return fmt.Errorf("TicketUseCase - Submit - uc.outboxRepo.Create: %w", err)
			}

			return nil
		})

		return struct{}{}, err
	})
	if err != nil {
		return nil, fmt.Errorf("TicketUseCase - Submit - uc.transactor.WithinTransaction: %w", err)
	}

	return &usecase.SubmitResult{
		Ticket:       ticket,
		PhotoDropped: photoDropped,
	}, nil
}

// persistPhoto resolves the photo reference for one pending photo. Upload and
// URL retrieval each race their own timer; any failure on that path falls
// back to storing the data URL inline, unless the decoded payload exceeds
// the size cap, in which case the photo is dropped and the second return is
// true.
func (uc *UseCase) persistPhoto(ctx context.Context, ownerUID, pendingPhoto string) (entity.PhotoRef, bool) {
	url, err := uc.uploadPhoto(ctx, ownerUID, pendingPhoto)
	if err == nil {
		return entity.NewURLPhoto(url), false
	}

	uc.logger.Warn("TicketUseCase - persistPhoto - object storage unavailable, falling back to inline: %v", err)

	if size := processor.DecodedSize(pendingPhoto); size > uc.inlineMaxBytes {
		uc.logger.Warn("TicketUseCase - persistPhoto - inline photo of %d bytes over cap, dropping", size)

		return entity.PhotoRef{}, true
	}

	return entity.NewInlinePhoto(pendingPhoto), false
}

func (uc *UseCase) uploadPhoto(ctx context.Context, ownerUID, pendingPhoto string) (string, error) {
	data, err := processor.DecodeDataURL(pendingPhoto)
	if err != nil {
		return "", fmt.Errorf("TicketUseCase - uploadPhoto - processor.DecodeDataURL: %w", err)
	}

	key := fmt.Sprintf("tickets/%s/%s.jpg", ownerUID, uuid.NewString())

	_, err = race(ctx, uc.uploadTimeout, "upload da imagem", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, uc.photoRepo.Upload(ctx, key, data, _photoContentType)
	})
	if err != nil {
		return "", fmt.Errorf("TicketUseCase - uploadPhoto - uc.photoRepo.Upload: %w", err)
	}

	url, err := race(ctx, uc.getURLTimeout, "obter URL da imagem", func(ctx context.Context) (string, error) {
		return uc.photoRepo.RetrievableURL(ctx, key)
	})
	if err != nil {
		return "", fmt.Errorf("TicketUseCase - uploadPhoto - uc.photoRepo.RetrievableURL: %w", err)
	}

	return url, nil
}

func (uc *UseCase) ListByOwner(ctx context.Context, ownerUID string) ([]*entity.Ticket, error) {
	tickets, err := uc.ticketRepo.ListByOwner(ctx, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("TicketUseCase - ListByOwner - uc.ticketRepo.ListByOwner: %w", err)
	}

	return tickets, nil
}
