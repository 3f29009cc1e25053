package notifier

import (
	"context"
	"fmt"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	"github.com/smartcapwap/capwap-ac/pkg/mqtt"
	"github.com/smartcapwap/capwap-ac/pkg/mqtt/topic"
	"github.com/smartcapwap/capwap-ac/pkg/options"
)

var _ core.NotificationTransport = (*MQTTNotifier)(nil)

// MQTTNotifier publishes reset notifications on {root}/ac/{acID}/reset.
// The payload is the same ResetNotification element the SOAP transport sends.
type MQTTNotifier struct {
	client    mqtt.Client
	topic     string
	qos       int
	namespace string
	acID      string
}

// NewMQTTNotifier creates a notifier publishing through client. The client
// lifecycle (Start/Disconnect) stays with the caller.
func NewMQTTNotifier(client mqtt.Client, opts *options.MqttOptions, acID, namespace string) *MQTTNotifier {
	return &MQTTNotifier{
		client:    client,
		topic:     topic.NewBuilder(opts.TopicRoot).Reset(acID),
		qos:       opts.QoS,
		namespace: namespace,
		acID:      acID,
	}
}

func (n *MQTTNotifier) Name() string {
	return options.TransportMQTT
}

// Topic returns the topic notifications are published on.
func (n *MQTTNotifier) Topic() string {
	return n.topic
}

func (n *MQTTNotifier) Deliver(ctx context.Context, rn *model.ResetNotification) error {
	payload, err := EncodeResetNotification(n.namespace, n.acID, rn)
	if err != nil {
		return err
	}

	if err := n.client.Publish(ctx, n.topic, n.qos, false, payload); err != nil {
		return fmt.Errorf("%w: publish to %s: %w", core.ErrTransportFailure, n.topic, err)
	}
	return nil
}
