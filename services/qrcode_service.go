// services/qrcode_service.go
package services

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// QRCodeEncoder matches qrcode.Encode so tests can swap the encoder.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// GenerateQRCode renders a square PNG QR code pointing at the signup page.
func GenerateQRCode(pageURL string, size int, encode QRCodeEncoder) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("invalid dimensions: size must be positive")
	}
	if pageURL == "" {
		return nil, errors.New("page URL is required")
	}
	png, err := encode(pageURL, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
