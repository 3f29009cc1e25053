package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/smartcapwap/capwap-ac/internal/acbackend"
	"github.com/smartcapwap/capwap-ac/pkg/app"
	"github.com/smartcapwap/capwap-ac/pkg/log"
	"github.com/smartcapwap/capwap-ac/pkg/options"
)

type ACOptions struct {
	SoapOptions   *options.SoapOptions   `json:"soap" mapstructure:"soap"`
	NotifyOptions *options.NotifyOptions `json:"notify" mapstructure:"notify"`
	MqttOptions   *options.MqttOptions   `json:"mqtt" mapstructure:"mqtt"`
	S3Options     *options.S3Options     `json:"s3" mapstructure:"s3"`
	Log           *log.Options           `json:"log" mapstructure:"log"`
}

var _ app.NamedFlagSetOptions = (*ACOptions)(nil)

func NewACOptions() *ACOptions {
	o := &ACOptions{
		SoapOptions:   options.NewSoapOptions(),
		NotifyOptions: options.NewNotifyOptions(),
		MqttOptions:   options.NewMqttOptions(),
		S3Options:     options.NewS3Options(),
		Log:           log.NewOptions(),
	}
	o.Log.Name = "capwap-ac"

	return o
}

func (o *ACOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.SoapOptions.AddFlags(fss.FlagSet("soap"))
	o.NotifyOptions.AddFlags(fss.FlagSet("notify"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.S3Options.AddFlags(fss.FlagSet("s3"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *ACOptions) Complete() error {
	return nil
}

func (o *ACOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.SoapOptions.Validate()...)
	errs = append(errs, o.NotifyOptions.Validate()...)
	if o.NotifyOptions.Transport == options.TransportMQTT {
		errs = append(errs, o.MqttOptions.Validate()...)
	}
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *ACOptions) Config() (*acbackend.Config, error) {
	return &acbackend.Config{
		SoapOptions:   o.SoapOptions,
		NotifyOptions: o.NotifyOptions,
		MqttOptions:   o.MqttOptions,
		S3Options:     o.S3Options,
	}, nil
}
