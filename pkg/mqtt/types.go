package mqtt

import (
	"context"
)

// Client is the publish side of an MQTT connection.
// It hides the paho connection manager from callers.
type Client interface {
	// Start initiates the connection to the broker. It does not wait for it;
	// use AwaitConnection for that.
	Start(ctx context.Context) error

	// Disconnect cleanly closes the connection.
	Disconnect(ctx context.Context)

	// Publish sends payload to topic. With qos > 0 it returns once the broker acknowledged it.
	Publish(ctx context.Context, topic string, qos int, retain bool, payload []byte) error

	// AwaitConnection blocks until the client is connected to the broker.
	AwaitConnection(ctx context.Context) error

	// IsConnected reports whether the last connection attempt succeeded and has not dropped.
	IsConnected() bool
}
