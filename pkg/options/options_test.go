package options

import (
	"testing"
	"time"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"0.0.0.0:8443", false},
		{":8443", false},
		{"localhost:0", false},
		{"[::1]:8443", false},
		{"8443", true},
		{"127.0.0.1:http", true},
		{"127.0.0.1:70000", true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if err := ValidateAddress(tt.addr); (err != nil) != tt.wantErr {
				t.Errorf("ValidateAddress(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}

func TestSoapOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *SoapOptions)
		wantErr int
	}{
		{"defaults", func(o *SoapOptions) {}, 0},
		{"missing addr", func(o *SoapOptions) { o.Addr = "" }, 1},
		{"missing namespace", func(o *SoapOptions) { o.Namespace = "" }, 1},
		{"relative namespace", func(o *SoapOptions) { o.Namespace = "smartcapwap" }, 1},
		{"urn namespace", func(o *SoapOptions) { o.Namespace = "urn:smartcapwap:mgmt" }, 0},
		{"no shutdown budget", func(o *SoapOptions) { o.ShutdownTimeout = 0 }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewSoapOptions()
			tt.mutate(o)
			if errs := o.Validate(); len(errs) != tt.wantErr {
				t.Errorf("Validate() = %v, want %d errors", errs, tt.wantErr)
			}
		})
	}
}

func TestNotifyOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *NotifyOptions)
		wantErr int
	}{
		{"defaults", func(o *NotifyOptions) {}, 0},
		{"mqtt ignores endpoint", func(o *NotifyOptions) { o.Transport = TransportMQTT; o.Endpoint = "" }, 0},
		{"soap needs http endpoint", func(o *NotifyOptions) { o.Endpoint = "ftp://nms/soap" }, 1},
		{"unknown transport", func(o *NotifyOptions) { o.Transport = "carrier-pigeon" }, 1},
		{"zero timeout", func(o *NotifyOptions) { o.Timeout = 0 }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewNotifyOptions()
			tt.mutate(o)
			if errs := o.Validate(); len(errs) != tt.wantErr {
				t.Errorf("Validate() = %v, want %d errors", errs, tt.wantErr)
			}
		})
	}
}

func TestS3OptionsValidate(t *testing.T) {
	o := NewS3Options()
	if o.Enabled() {
		t.Fatal("image repository must be disabled by default")
	}
	if errs := o.Validate(); len(errs) != 0 {
		t.Fatalf("disabled options must validate, got %v", errs)
	}

	o.Endpoint = "minio.local:9000"
	o.URLExpiry = 8 * 24 * time.Hour
	if errs := o.Validate(); len(errs) != 1 {
		t.Errorf("Validate() = %v, want 1 error", errs)
	}
}

func TestMqttOptionsToClientConfig(t *testing.T) {
	o := NewMqttOptions()
	o.ClientID = "ac-1"
	cfg := o.ToClientConfig()
	if cfg.KeepAlive != 60 || cfg.ClientID != "ac-1" || cfg.BrokerURL != o.Broker {
		t.Errorf("unexpected client config: %+v", cfg)
	}
	if errs := o.Validate(); len(errs) != 0 {
		t.Errorf("defaults must validate, got %v", errs)
	}
}
