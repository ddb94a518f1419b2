package response

type Error struct {
	Message string `json:"error"`
}

type Ticket struct {
	ID          string `json:"id"`
	Sector      string `json:"sector"`
	Room        string `json:"room"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Status      string `json:"status"`
	PhotoURL    string `json:"photo_url,omitempty"`
	PhotoInline string `json:"photo_base64,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type Submit struct {
	Ticket Ticket `json:"ticket"`
	// Notice carries a non-fatal warning, e.g. the photo was dropped because
	// its inline fallback exceeded the size cap.
	Notice string `json:"notice,omitempty"`
}

type Feed struct {
	HTML string `json:"html"`
}
