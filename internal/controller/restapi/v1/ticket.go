package v1

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maintdesk/ticket-intake/internal/controller/restapi/v1/response"
	"github.com/maintdesk/ticket-intake/internal/dto"
	"github.com/maintdesk/ticket-intake/internal/entity"
	"github.com/maintdesk/ticket-intake/internal/usecase/ticket"
	"github.com/maintdesk/ticket-intake/pkg/types/errs"
	"github.com/valyala/fasthttp"
)

const _photoTooLargeNotice = "A imagem está muito grande para salvar no documento (limite ~1MB). Tente uma foto menor."

// @Summary  	Submit maintenance ticket
// @Description Validates the form, persists the photo (object storage with inline fallback) and creates the ticket record
// @Tags 		tickets
// @Accept 		mpfd
// @Produce 	json
// @Param 		setor 	  formData string true  "Sector"
// @Param 		sala 	  formData string true  "Room/location"
// @Param 		descricao formData string true  "Problem description"
// @Param 		gravidade formData string true  "Severity"
// @Param 		foto 	  formData file   false "Optional photo"
// @Success 	201 {object} response.Submit
// @Failure 	400 {object} response.Error "Missing required field"
// @Failure 	500 {object} response.Error "Record creation failed"
// @Router 		/v1/tickets [post]
func (r *V1) submitTicket(ctx *fiber.Ctx) error {
	user, ok := currentUser(ctx)
	if !ok {
		return errorResponse(ctx, http.StatusUnauthorized, "invalid or missing credentials")
	}

	form := dto.Submission{
		Sector:      strings.TrimSpace(ctx.FormValue("setor")),
		Room:        strings.TrimSpace(ctx.FormValue("sala")),
		Description: strings.TrimSpace(ctx.FormValue("descricao")),
		Severity:    strings.TrimSpace(ctx.FormValue("gravidade")),
	}

	session := ticket.NewSession(user, r.tkt, r.codec, r.logger, r.photoCfg.MaxDim, r.photoCfg.Quality)

	if file, err := ctx.FormFile("foto"); err == nil && file.Size > 0 {
		dataURL, err := fileToDataURL(file.Header.Get("Content-Type"), file)
		if err != nil {
			r.logger.Error(err, "restapi - v1 - submitTicket - fileToDataURL")

			return errorResponse(ctx, http.StatusBadRequest, "problems with reading the photo")
		}

		if _, err := session.AttachPhoto(ctx.UserContext(), dataURL); err != nil {
			r.logger.Error(err, "restapi - v1 - submitTicket - session.AttachPhoto")

			return errorResponse(ctx, http.StatusBadRequest, "problems with processing the photo")
		}
	}

	res, err := session.Submit(ctx.UserContext(), form)
	if err != nil {
		var vErr *errs.ValidationError
		if errors.As(err, &vErr) {
			return errorResponse(ctx, http.StatusBadRequest, vErr.Message)
		}

		r.logger.Error(err, "restapi - v1 - submitTicket")

		return errorResponse(ctx, http.StatusInternalServerError, "Erro ao salvar chamado: "+err.Error())
	}

	resp := response.Submit{Ticket: toTicketResponse(res.Ticket)}
	if res.PhotoDropped {
		resp.Notice = _photoTooLargeNotice
	}

	return ctx.Status(http.StatusCreated).JSON(resp)
}

// @Summary 	List own tickets
// @Description Lists the authenticated user's tickets
// @Tags 		tickets
// @Produce 	json
// @Success 	200 {array}  response.Ticket
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/tickets [get]
func (r *V1) listTickets(ctx *fiber.Ctx) error {
	user, ok := currentUser(ctx)
	if !ok {
		return errorResponse(ctx, http.StatusUnauthorized, "invalid or missing credentials")
	}

	tickets, err := r.tkt.ListByOwner(ctx.UserContext(), user.UID)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - listTickets")

		return errorResponse(ctx, http.StatusInternalServerError, "Erro ao listar chamados: "+err.Error())
	}

	resp := make([]response.Ticket, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, toTicketResponse(t))
	}

	return ctx.JSON(resp)
}

// @Summary 	Live ticket feed
// @Description Server-sent events stream: every event carries the rendered full result set of the user's tickets
// @Tags 		tickets
// @Produce 	text/event-stream
// @Success 	200 {string} string "event stream"
// @Failure 	500 {object} response.Error "Subscription failed"
// @Router 		/v1/tickets/feed [get]
func (r *V1) streamTickets(ctx *fiber.Ctx) error {
	user, ok := currentUser(ctx)
	if !ok {
		return errorResponse(ctx, http.StatusUnauthorized, "invalid or missing credentials")
	}

	// Outlives the handler: the stream writer below owns the subscription.
	sub, err := r.feed.Subscribe(context.Background(), user.UID)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - streamTickets")

		return errorResponse(ctx, http.StatusInternalServerError, "Erro ao listar chamados: "+err.Error())
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Close()

		for {
			select {
			case set, ok := <-sub.Updates():
				if !ok {
					return
				}

				payload, err := json.Marshal(response.Feed{HTML: r.feed.Render(set)})
				if err != nil {
					return
				}
				if _, err := fmt.Fprintf(w, "event: tickets\ndata: %s\n\n", payload); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case err := <-sub.Err():
				// The stream is broken; tell the client once and freeze.
				payload, _ := json.Marshal(response.Error{Message: "Erro ao listar chamados: " + err.Error()})
				_, _ = fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
				_ = w.Flush()

				return
			}
		}
	}))

	return nil
}

func toTicketResponse(t *entity.Ticket) response.Ticket {
	resp := response.Ticket{
		ID:          t.ID.String(),
		Sector:      t.Sector,
		Room:        t.Room,
		Description: t.Description,
		Severity:    t.Severity,
		Status:      string(t.Status),
		PhotoURL:    t.Photo.URL(),
		PhotoInline: t.Photo.Inline(),
	}

	if t.CreatedAt != nil {
		resp.CreatedAt = t.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	return resp
}

func fileToDataURL(contentType string, file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("file.Open: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll: %w", err)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
