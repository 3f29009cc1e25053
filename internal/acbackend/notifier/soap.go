package notifier

import (
	"context"
	"fmt"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	"github.com/smartcapwap/capwap-ac/pkg/options"
	"github.com/smartcapwap/capwap-ac/pkg/soap"
)

var _ core.NotificationTransport = (*SOAPNotifier)(nil)

// SOAPNotifier posts reset notifications to the management system's SOAP endpoint.
type SOAPNotifier struct {
	client    *soap.Client
	namespace string
	acID      string
}

// NewSOAPNotifier creates a notifier posting to opts.Endpoint with body
// elements in namespace.
func NewSOAPNotifier(opts *options.NotifyOptions, namespace string) *SOAPNotifier {
	return &SOAPNotifier{
		client:    soap.NewClient(opts.Endpoint, opts.Timeout),
		namespace: namespace,
		acID:      opts.ACID,
	}
}

func (n *SOAPNotifier) Name() string {
	return options.TransportSOAP
}

// Deliver succeeds when the endpoint answered 2xx without a fault.
func (n *SOAPNotifier) Deliver(ctx context.Context, rn *model.ResetNotification) error {
	body, err := EncodeResetNotification(n.namespace, n.acID, rn)
	if err != nil {
		return err
	}

	data, err := n.client.Do(ctx, Action(n.namespace), soap.Wrap(body))
	if err != nil {
		return fmt.Errorf("%w: post to %s: %w", core.ErrTransportFailure, n.client.Endpoint(), err)
	}
	if len(data) > 0 {
		if err := soap.Unmarshal(data, nil); err != nil {
			return fmt.Errorf("%w: %s answered: %w", core.ErrTransportFailure, n.client.Endpoint(), err)
		}
	}
	return nil
}
