package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/maintdesk/ticket-intake/config"
	"github.com/maintdesk/ticket-intake/internal/dto"
	"github.com/maintdesk/ticket-intake/internal/entity"
	"github.com/maintdesk/ticket-intake/internal/infrastructure/identity"
	"github.com/maintdesk/ticket-intake/internal/usecase"
	"github.com/maintdesk/ticket-intake/pkg/logger"
	"github.com/maintdesk/ticket-intake/pkg/types/errs"
)

const _testSecret = "test-secret"

type stubTicketUC struct {
	submitErr error
	dropped   bool
	tickets   []*entity.Ticket

	lastForm  dto.Submission
	lastPhoto string
}

func (u *stubTicketUC) Submit(ctx context.Context, user entity.User, form dto.Submission, pendingPhoto string) (*usecase.SubmitResult, error) {
	u.lastForm = form
	u.lastPhoto = pendingPhoto
	if u.submitErr != nil {
		return nil, u.submitErr
	}
	return &usecase.SubmitResult{
		Ticket:       &entity.Ticket{ID: uuid.New(), OwnerUID: user.UID, Status: entity.TicketOpen, Severity: form.Severity},
		PhotoDropped: u.dropped,
	}, nil
}

func (u *stubTicketUC) ListByOwner(ctx context.Context, ownerUID string) ([]*entity.Ticket, error) {
	return u.tickets, nil
}
func (u *stubTicketUC) GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error) {
	return nil, nil
}
func (u *stubTicketUC) MarkAsProcessingBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	return nil
}
func (u *stubTicketUC) MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	return nil
}
func (u *stubTicketUC) IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	return nil
}
func (u *stubTicketUC) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error { return nil }
func (u *stubTicketUC) CleanupOutbox(ctx context.Context) error                          { return nil }

type stubFeedUC struct{}

func (stubFeedUC) Subscribe(ctx context.Context, ownerUID string) (usecase.Subscription, error) {
	return nil, errs.ErrSubscriptionClosed
}
func (stubFeedUC) Render(tickets []*entity.Ticket) string { return "" }

type stubCodec struct{}

func (stubCodec) CompressDataURL(_ context.Context, dataURL string, _ int, _ float64) (string, error) {
	return dataURL, nil
}
func (stubCodec) SnapshotDataURL(_ context.Context, _ image.Image, _, _ int, _ float64) (string, error) {
	return "", nil
}

func newTestApp(uc *stubTicketUC) *fiber.App {
	app := fiber.New()

	group := app.Group("/v1", AuthMiddleware(identity.NewVerifier(_testSecret)))
	NewTicketRoutes(group, uc, stubFeedUC{}, stubCodec{}, config.Photo{MaxDim: 900, Quality: 0.5}, logger.New("error"))

	return app
}

func bearerToken(t *testing.T) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "uid-1",
		"email":   "user@example.com",
		"name":    "User One",
	}).SignedString([]byte(_testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return "Bearer " + token
}

func multipartForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return &buf, w.FormDataContentType()
}

func TestSubmitTicket_RequiresAuth(t *testing.T) {
	app := newTestApp(&stubTicketUC{})

	body, contentType := multipartForm(t, map[string]string{"setor": "Bloco A"})
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestSubmitTicket_ValidationMessagePassedThrough(t *testing.T) {
	uc := &stubTicketUC{submitErr: &errs.ValidationError{Field: "sector", Message: "Escolha o setor."}}
	app := newTestApp(uc)

	body, contentType := multipartForm(t, map[string]string{
		"sala": "101", "descricao": "problema", "gravidade": "alta",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var errBody struct {
		Message string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if errBody.Message != "Escolha o setor." {
		t.Errorf("expected the validation message verbatim, got %q", errBody.Message)
	}
}

func TestSubmitTicket_Created(t *testing.T) {
	uc := &stubTicketUC{}
	app := newTestApp(uc)

	body, contentType := multipartForm(t, map[string]string{
		"setor": "Bloco A", "sala": "101", "descricao": "Lâmpada queimada", "gravidade": "baixa",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	if uc.lastForm.Sector != "Bloco A" || uc.lastForm.Severity != "baixa" {
		t.Errorf("form not passed through: %+v", uc.lastForm)
	}

	var created struct {
		Ticket struct {
			Status string `json:"status"`
		} `json:"ticket"`
		Notice string `json:"notice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if created.Ticket.Status != "aberto" {
		t.Errorf("expected status aberto, got %q", created.Ticket.Status)
	}
	if created.Notice != "" {
		t.Errorf("no notice expected, got %q", created.Notice)
	}
}

func TestSubmitTicket_DroppedPhotoNotice(t *testing.T) {
	uc := &stubTicketUC{dropped: true}
	app := newTestApp(uc)

	body, contentType := multipartForm(t, map[string]string{
		"setor": "Bloco A", "sala": "101", "descricao": "problema", "gravidade": "alta",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var created struct {
		Notice string `json:"notice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if created.Notice != _photoTooLargeNotice {
		t.Errorf("expected the size-cap notice, got %q", created.Notice)
	}
}

func TestListTickets(t *testing.T) {
	uc := &stubTicketUC{tickets: []*entity.Ticket{
		{ID: uuid.New(), OwnerUID: "uid-1", Status: entity.TicketOpen, Severity: "alta"},
	}}
	app := newTestApp(uc)

	req := httptest.NewRequest(http.MethodGet, "/v1/tickets", nil)
	req.Header.Set("Authorization", bearerToken(t))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var list []struct {
		Severity string `json:"severity"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(list) != 1 || list[0].Severity != "alta" {
		t.Errorf("unexpected list %+v", list)
	}
}
