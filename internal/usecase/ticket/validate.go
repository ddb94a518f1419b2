package ticket

import (
	"strings"

	"github.com/maintdesk/ticket-intake/internal/dto"
	"github.com/maintdesk/ticket-intake/pkg/types/errs"
)

// Each missing field has its own user-facing message. The first missing one
// aborts the submission; nothing is persisted.
func validateSubmission(form dto.Submission) error {
	if strings.TrimSpace(form.Sector) == "" {
		return &errs.ValidationError{Field: "sector", Message: "Escolha o setor."}
	}
	if strings.TrimSpace(form.Room) == "" {
		return &errs.ValidationError{Field: "room", Message: "Informe a sala/local."}
	}
	if strings.TrimSpace(form.Description) == "" {
		return &errs.ValidationError{Field: "description", Message: "Descreva o problema."}
	}
	if strings.TrimSpace(form.Severity) == "" {
		return &errs.ValidationError{Field: "severity", Message: "Selecione a gravidade."}
	}

	return nil
}
