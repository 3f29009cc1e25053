package model

import (
	"time"

	"github.com/google/uuid"
)

// ResetNotification tells the management layer that a WTP is resetting and
// which image it will boot. It is built once per event and handed to exactly
// one transport.
type ResetNotification struct {
	ID           string
	Timestamp    time.Time
	StartupImage ImageIdentifier
	DownloadURL  string
}

// NewResetNotification builds a notification for img. An invalid identifier
// yields an error and no notification.
func NewResetNotification(img ImageIdentifier) (*ResetNotification, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return &ResetNotification{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		StartupImage: img,
	}, nil
}
