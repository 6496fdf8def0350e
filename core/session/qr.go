package session

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 300
	MaxQRSize     = 1024
)

// QRPayload is the document encoded into the QR code shown by the session owner.
type QRPayload struct {
	SessionID string    `json:"sessionId"`
	ClassID   string    `json:"classId"`
	Subject   string    `json:"subject"`
	Room      string    `json:"room"`
	Timestamp time.Time `json:"timestamp"`
}

func NewQRPayload(sess Session) QRPayload {
	return QRPayload{
		SessionID: sess.Token,
		ClassID:   sess.ClassID,
		Subject:   sess.Subject,
		Room:      sess.Room,
		Timestamp: sess.CreatedAt,
	}
}

// EncodeQR renders the session's QR payload as a PNG image of size x size pixels.
// size is capped at MaxQRSize.
func EncodeQR(sess Session, size int) ([]byte, error) {
	switch {
	case size <= 0:
		size = DefaultQRSize
	case size > MaxQRSize:
		size = MaxQRSize
	}
	data, err := json.Marshal(NewQRPayload(sess))
	if err != nil {
		return nil, errors.Wrap(err, "marshalling qr payload")
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(err, "encoding qr code")
	}
	return png, nil
}

// DecodePayload reads a scanned QR payload. Anything unreadable is ErrMalformedToken.
func DecodePayload(data []byte) (QRPayload, error) {
	var p QRPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return QRPayload{}, ErrMalformedToken
	}
	if strings.TrimSpace(p.SessionID) == "" {
		return QRPayload{}, ErrMalformedToken
	}
	return p, nil
}

// ClaimToken extracts the token from what a participant submitted:
// either the raw token or the whole scanned QR payload.
func ClaimToken(scanned string) (string, error) {
	scanned = strings.TrimSpace(scanned)
	if !strings.HasPrefix(scanned, "{") {
		return scanned, nil
	}
	p, err := DecodePayload([]byte(scanned))
	if err != nil {
		return "", err
	}
	return p.SessionID, nil
}
