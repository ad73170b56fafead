package auth

import (
	"context"
	"log"
)

// Sender delivers one-time codes over an out-of-band channel. Codes are
// never returned through the API.
type Sender interface {
	SendCode(ctx context.Context, mobile, code string) error
}

// ConsoleSender logs codes instead of sending SMS. Development only.
type ConsoleSender struct {
	enabled bool
}

func NewConsoleSender(enabled bool) *ConsoleSender {
	return &ConsoleSender{enabled: enabled}
}

func (s *ConsoleSender) SendCode(_ context.Context, mobile, code string) error {
	if s.enabled {
		log.Printf("[DEV-SMS] one-time code mobile=%s code=%s", mobile, code)
	}
	return nil
}
