package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// PNGSize is the edge length in pixels of generated share codes.
const PNGSize = 256

// GeneratePNG renders content as a medium-recovery QR code.
func GeneratePNG(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, PNGSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return png, nil
}
