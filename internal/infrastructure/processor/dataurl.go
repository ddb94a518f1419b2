package processor

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/maintdesk/ticket-intake/pkg/types/errs"
)

const jpegDataURLPrefix = "data:image/jpeg;base64,"

func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

func EncodeDataURL(data []byte) string {
	return jpegDataURLPrefix + base64.StdEncoding.EncodeToString(data)
}

func DecodeDataURL(s string) ([]byte, error) {
	_, payload, found := strings.Cut(s, ";base64,")
	if !found || !IsDataURL(s) {
		return nil, fmt.Errorf("DecodeDataURL: %w", errs.ErrUnsupportedImageData)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("DecodeDataURL - base64.Decode: %w", err)
	}

	return data, nil
}

// DecodedSize estimates the decoded byte count of a data URL without
// decoding it, for the inline-photo size cap.
func DecodedSize(s string) int {
	_, payload, found := strings.Cut(s, ";base64,")
	if !found {
		return 0
	}

	return (len(payload) * 3) / 4
}
