package errs

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRecordNotFound       = errors.New("record not found")
	ErrSubmissionInFlight   = errors.New("submission already in progress")
	ErrNoPendingPhoto       = errors.New("no pending photo")
	ErrCameraNotOpen        = errors.New("camera is not open")
	ErrNoCapturedFrame      = errors.New("no captured frame")
	ErrSubscriptionClosed   = errors.New("subscription closed")
	ErrUnauthenticated      = errors.New("missing or invalid credentials")
	ErrUnsupportedImageData = errors.New("unsupported image data")
)

// ValidationError reports a single missing or rejected form field. Message is
// shown to the user verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TimeoutError marks a staged operation that exceeded its budget. Downstream
// it is handled like any other failure of that stage.
type TimeoutError struct {
	Op     string
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s demorou demais (%s)", e.Op, e.Budget)
}

// PayloadTooLargeError is returned when an inline photo fallback exceeds the
// per-record size cap. The submission continues without the photo.
type PayloadTooLargeError struct {
	Size int
	Cap  int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("inline photo of %d bytes exceeds cap of %d bytes", e.Size, e.Cap)
}
