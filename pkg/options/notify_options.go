package options

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

const (
	TransportSOAP = "soap"
	TransportMQTT = "mqtt"
)

var _ IOptions = (*NotifyOptions)(nil)

// NotifyOptions selects and configures the transport reset notifications are delivered over.
type NotifyOptions struct {
	// Transport is either "soap" or "mqtt".
	Transport string `json:"transport" mapstructure:"transport"`

	// Endpoint is the management system's SOAP endpoint, used by the soap transport.
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// Timeout bounds a single delivery.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// ACID identifies this access controller in outbound notifications and topics.
	ACID string `json:"ac-id" mapstructure:"ac-id"`
}

// NewNotifyOptions creates NotifyOptions with default values.
func NewNotifyOptions() *NotifyOptions {
	return &NotifyOptions{
		Transport: TransportSOAP,
		Endpoint:  "http://127.0.0.1:8080/soap",
		Timeout:   5 * time.Second,
	}
}

// Validate checks the transport selection and its required settings.
func (o *NotifyOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	switch o.Transport {
	case TransportSOAP:
		if err := ValidateURL(o.Endpoint, "http", "https"); err != nil {
			errs = append(errs, fmt.Errorf("notify.endpoint: %w", err))
		}
	case TransportMQTT:
	default:
		errs = append(errs, fmt.Errorf("notify.transport %q must be %q or %q", o.Transport, TransportSOAP, TransportMQTT))
	}
	if o.Timeout <= 0 {
		errs = append(errs, errors.New("notify.timeout must be positive"))
	}
	return errs
}

// AddFlags adds flags for NotifyOptions to the specified FlagSet.
func (o *NotifyOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Transport, "notify.transport", o.Transport, "Transport used to deliver reset notifications (soap or mqtt).")
	fs.StringVar(&o.Endpoint, "notify.endpoint", o.Endpoint, "SOAP endpoint of the management system receiving notifications.")
	fs.DurationVar(&o.Timeout, "notify.timeout", o.Timeout, "Timeout for delivering a single notification.")
	fs.StringVar(&o.ACID, "notify.ac-id", o.ACID, "Identifier of this access controller (defaults to the hostname).")
}
