package livefeed

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/maintdesk/ticket-intake/internal/entity"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents folds "média" and "MEDIA" onto the same key.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// BadgeClass maps a severity value to its visual class, accent- and
// case-insensitively. Anything unrecognized is styled as critical.
func BadgeClass(severity string) string {
	folded, _, err := transform.String(stripAccents, severity)
	if err != nil {
		folded = severity
	}

	switch strings.ToLower(folded) {
	case entity.SeverityLow:
		return "badge grav-baixa"
	case entity.SeverityMedium:
		return "badge grav-media"
	case entity.SeverityHigh:
		return "badge grav-alta"
	default:
		return "badge grav-critica"
	}
}

// FormatCreatedAt renders the server timestamp for display, blank when the
// record has not been acknowledged yet.
func FormatCreatedAt(t *entity.Ticket) string {
	if t.CreatedAt == nil {
		return ""
	}

	return t.CreatedAt.Local().Format("02/01/2006, 15:04:05")
}

// Render builds the ticket list markup. All user-supplied fields are escaped;
// the URL photo form wins over the inline form, and a ticket without either
// renders no image at all.
func (uc *UseCase) Render(tickets []*entity.Ticket) string {
	var b strings.Builder

	for _, t := range tickets {
		b.WriteString(`<div class="ticket-card">`)
		b.WriteString(`<div class="ticket-head">`)
		fmt.Fprintf(&b, `<strong>%s</strong>`, html.EscapeString(t.ID.String()))
		fmt.Fprintf(&b, `<span class="%s">%s</span>`, BadgeClass(t.Severity), html.EscapeString(t.Severity))
		b.WriteString(`</div>`)
		fmt.Fprintf(&b, `<p><strong>Setor:</strong> %s</p>`, html.EscapeString(t.Sector))
		fmt.Fprintf(&b, `<p><strong>Sala/Local:</strong> %s</p>`, html.EscapeString(t.Room))
		fmt.Fprintf(&b, `<p><strong>Descrição:</strong> %s</p>`, html.EscapeString(t.Description))

		switch t.Photo.Kind {
		case entity.PhotoURL, entity.PhotoInline:
			fmt.Fprintf(&b, `<img class="ticket-thumb" src="%s" alt="Foto do problema">`, html.EscapeString(t.Photo.Value))
		}

		fmt.Fprintf(&b, `<small>Abertura: %s</small>`, FormatCreatedAt(t))
		b.WriteString(`</div>`)
	}

	return b.String()
}
