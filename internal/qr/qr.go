// Package qr renders scannable ticket artifacts.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 400

// Render encodes data as a QR code PNG and returns it as a base64 data
// URI suitable for direct embedding. Error correction is set high so
// codes survive phone-screen scanning.
func Render(data string) (string, error) {
	png, err := qrcode.Encode(data, qrcode.High, defaultSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
