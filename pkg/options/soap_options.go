package options

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// DefaultNamespace is the XML namespace of the SmartCAPWAP management protocol.
const DefaultNamespace = "http://smartcapwap/namespace"

var _ IOptions = (*SoapOptions)(nil)

// SoapOptions configures the management HTTP/SOAP server owned by the backend.
type SoapOptions struct {
	// Network is the listener network, "tcp", "tcp4" or "tcp6".
	Network string `json:"network" mapstructure:"network"`

	// Addr is the bind address of the management endpoint.
	Addr string `json:"addr" mapstructure:"addr"`

	// Namespace is the XML namespace URI every SOAP body element must carry.
	Namespace string `json:"namespace" mapstructure:"namespace"`

	ReadTimeout  time.Duration `json:"read-timeout" mapstructure:"read-timeout"`
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`

	// ShutdownTimeout bounds draining in-flight notifications and idle connections on stop.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewSoapOptions creates a SoapOptions object with default parameters.
func NewSoapOptions() *SoapOptions {
	return &SoapOptions{
		Network:         "tcp",
		Addr:            "0.0.0.0:8443",
		Namespace:       DefaultNamespace,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *SoapOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Addr == "" {
		errs = append(errs, errors.New("soap.addr is required"))
	} else if err := ValidateAddress(o.Addr); err != nil {
		errs = append(errs, err)
	}
	if o.Namespace == "" {
		errs = append(errs, errors.New("soap.namespace is required"))
	} else if err := ValidateNamespace(o.Namespace); err != nil {
		errs = append(errs, fmt.Errorf("soap.namespace: %w", err))
	}
	if o.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("soap.shutdown-timeout must be positive"))
	}
	return errs
}

// AddFlags adds flags related to the management server to the specified FlagSet.
func (o *SoapOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Network, "soap.network", o.Network, "Specify the network for the management SOAP server.")
	fs.StringVar(&o.Addr, "soap.addr", o.Addr, "Specify the management SOAP server bind address and port.")
	fs.StringVar(&o.Namespace, "soap.namespace", o.Namespace, "XML namespace URI of the management protocol.")
	fs.DurationVar(&o.ReadTimeout, "soap.read-timeout", o.ReadTimeout, "Maximum duration for reading a management request.")
	fs.DurationVar(&o.WriteTimeout, "soap.write-timeout", o.WriteTimeout, "Maximum duration for writing a management response.")
	fs.DurationVar(&o.ShutdownTimeout, "soap.shutdown-timeout", o.ShutdownTimeout, "Time allowed for in-flight notifications to drain on stop.")
}
