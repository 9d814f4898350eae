// Package qr renders registration tokens as scannable codes. The
// token goes into the code verbatim — it is already an opaque
// credential, so no extra envelope is needed.
package qr

import (
	"github.com/skip2/go-qrcode"

	"github.com/campusevents/campus-client/pkg/apperrors"
)

// DefaultSize is the rendered PNG edge length in pixels.
const DefaultSize = 256

// PNG renders the token as a PNG image. Size falls back to
// DefaultSize when non-positive.
func PNG(token string, size int) ([]byte, error) {
	if token == "" {
		return nil, apperrors.ValidationError("token", "is required")
	}
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(token, qrcode.Medium, size)
}

// WritePNG renders the token as a PNG file at path.
func WritePNG(token, path string, size int) error {
	if token == "" {
		return apperrors.ValidationError("token", "is required")
	}
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.WriteFile(token, qrcode.Medium, size, path)
}

// Terminal renders the token as a half-block string suitable for
// printing to a terminal.
func Terminal(token string) (string, error) {
	if token == "" {
		return "", apperrors.ValidationError("token", "is required")
	}
	code, err := qrcode.New(token, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return code.ToSmallString(false), nil
}
