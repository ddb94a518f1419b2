package dto

// Submission carries the ticket form fields as entered by the user. The
// pending photo travels separately since it may come from the file picker or
// from a capture session.
type Submission struct {
	Sector      string
	Room        string
	Description string
	Severity    string
}
