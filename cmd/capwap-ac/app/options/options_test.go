package options

import (
	"testing"

	"github.com/smartcapwap/capwap-ac/pkg/options"
)

func TestACOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *ACOptions)
		wantErr bool
	}{
		{"defaults", func(o *ACOptions) {}, false},
		{"bad soap addr", func(o *ACOptions) { o.SoapOptions.Addr = "nowhere" }, true},
		{"mqtt broker ignored for soap transport", func(o *ACOptions) { o.MqttOptions.Broker = "" }, false},
		{"mqtt broker required for mqtt transport", func(o *ACOptions) {
			o.NotifyOptions.Transport = options.TransportMQTT
			o.MqttOptions.Broker = ""
		}, true},
		{"bad log level", func(o *ACOptions) { o.Log.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewACOptions()
			tt.mutate(o)
			if err := o.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestACOptionsFlags(t *testing.T) {
	fss := NewACOptions().Flags()
	for _, section := range []string{"soap", "notify", "mqtt", "s3", "log"} {
		if fss.FlagSets[section] == nil {
			t.Errorf("missing flag section %q", section)
		}
	}
	if fss.FlagSet("soap").Lookup("soap.addr") == nil {
		t.Error("soap.addr flag not registered")
	}
}
