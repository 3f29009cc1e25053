package notifier

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	"github.com/smartcapwap/capwap-ac/pkg/soap"
)

// ResetNotificationElement is the local name of the notification body element.
const ResetNotificationElement = "ResetNotification"

type resetNotificationXML struct {
	XMLName      xml.Name
	ID           string                `xml:"NotificationID,omitempty"`
	ACID         string                `xml:"ACID,omitempty"`
	Timestamp    time.Time             `xml:"Timestamp"`
	StartupImage model.ImageIdentifier `xml:"StartupImage"`
	DownloadURL  string                `xml:"DownloadURL,omitempty"`
}

// Action returns the SOAPAction of reset notifications in namespace ns.
func Action(ns string) string {
	return ns + "#" + ResetNotificationElement
}

// EncodeResetNotification renders n as a ResetNotification element in
// namespace ns. Errors wrap core.ErrSerializationFailure.
func EncodeResetNotification(ns, acID string, n *model.ResetNotification) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil notification", core.ErrSerializationFailure)
	}
	if err := n.StartupImage.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSerializationFailure, err)
	}

	data, err := xml.Marshal(&resetNotificationXML{
		XMLName:      xml.Name{Space: ns, Local: ResetNotificationElement},
		ID:           n.ID,
		ACID:         acID,
		Timestamp:    n.Timestamp,
		StartupImage: n.StartupImage,
		DownloadURL:  n.DownloadURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSerializationFailure, err)
	}
	return data, nil
}

// DecodeResetNotification parses a bare ResetNotification element. A
// non-empty ns must match the element namespace. It also returns the AC id
// carried by the element.
func DecodeResetNotification(ns string, data []byte) (*model.ResetNotification, string, error) {
	var wire resetNotificationXML
	if err := xml.Unmarshal(data, &wire); err != nil {
		return nil, "", fmt.Errorf("decode reset notification: %w", err)
	}
	return fromWire(ns, &wire)
}

// DecodeResetEnvelope parses a SOAP envelope carrying a ResetNotification.
func DecodeResetEnvelope(ns string, data []byte) (*model.ResetNotification, string, error) {
	var wire resetNotificationXML
	if err := soap.Unmarshal(data, &wire); err != nil {
		return nil, "", fmt.Errorf("decode reset notification: %w", err)
	}
	return fromWire(ns, &wire)
}

func fromWire(ns string, wire *resetNotificationXML) (*model.ResetNotification, string, error) {
	if wire.XMLName.Local != ResetNotificationElement {
		return nil, "", fmt.Errorf("unexpected element %q", wire.XMLName.Local)
	}
	if ns != "" && wire.XMLName.Space != ns {
		return nil, "", fmt.Errorf("unexpected namespace %q", wire.XMLName.Space)
	}
	return &model.ResetNotification{
		ID:           wire.ID,
		Timestamp:    wire.Timestamp,
		StartupImage: wire.StartupImage,
		DownloadURL:  wire.DownloadURL,
	}, wire.ACID, nil
}
