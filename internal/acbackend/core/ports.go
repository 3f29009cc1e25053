package core

import (
	"context"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
)

// NotificationTransport delivers reset notifications to the management layer.
// Deliver returns nil only once the peer accepted the notification. Errors
// wrap ErrSerializationFailure or ErrTransportFailure.
type NotificationTransport interface {
	Deliver(ctx context.Context, n *model.ResetNotification) error
	Name() string
}

// ImageStore resolves startup images to download locations.
type ImageStore interface {
	DownloadURL(ctx context.Context, img model.ImageIdentifier) (string, error)
}
