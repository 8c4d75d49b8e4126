package qrcode

import (
	"errors"

	qr "github.com/skip2/go-qrcode"
)

// Size is the edge of generated join codes in pixels.
const Size = 256

// Generate encodes a join link as a PNG image.
func Generate(link string) ([]byte, error) {
	if link == "" {
		return nil, errors.New("empty join link")
	}
	return qr.Encode(link, qr.Medium, Size)
}
