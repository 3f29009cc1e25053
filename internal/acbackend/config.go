package acbackend

import (
	"fmt"
	"os"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/notifier"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/storage"
	"github.com/smartcapwap/capwap-ac/internal/capwap"
	"github.com/smartcapwap/capwap-ac/pkg/log"
	"github.com/smartcapwap/capwap-ac/pkg/mqtt"
	"github.com/smartcapwap/capwap-ac/pkg/mqtt/topic"
	"github.com/smartcapwap/capwap-ac/pkg/options"
)

const (
	dispatchQueueSize = 256
	dispatchWorkers   = 4
)

// Config is the completed configuration of the AC daemon.
type Config struct {
	SoapOptions   *options.SoapOptions
	NotifyOptions *options.NotifyOptions
	MqttOptions   *options.MqttOptions
	S3Options     *options.S3Options
}

// NewDaemon wires the backend, its notification transport and the optional
// image store from cfg. Nothing is contacted until Run.
func (cfg *Config) NewDaemon() (*Daemon, error) {
	acID, err := cfg.acID()
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		cfg:   cfg,
		acID:  acID,
		sinks: capwap.NewSinkRegistry(),
	}
	d.events = capwap.NewDispatcher(d.sinks, dispatchQueueSize, dispatchWorkers)

	transport, err := d.newTransport()
	if err != nil {
		return nil, err
	}

	opts := []Option{WithSinkRegistry(d.sinks)}
	if cfg.S3Options.Enabled() {
		store, err := storage.NewMinIO(cfg.S3Options)
		if err != nil {
			return nil, err
		}
		d.store = store
		opts = append(opts, WithImageStore(store))
	}

	d.backend = New(cfg.SoapOptions, transport, opts...)
	return d, nil
}

func (cfg *Config) acID() (string, error) {
	if cfg.NotifyOptions.ACID != "" {
		return cfg.NotifyOptions.ACID, nil
	}
	host, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("ac id not set and hostname unavailable: %w", err)
	}
	return host, nil
}

func (d *Daemon) newTransport() (core.NotificationTransport, error) {
	ns := d.cfg.SoapOptions.Namespace

	switch d.cfg.NotifyOptions.Transport {
	case options.TransportSOAP:
		notifyOpts := *d.cfg.NotifyOptions
		notifyOpts.ACID = d.acID
		return notifier.NewSOAPNotifier(&notifyOpts, ns), nil

	case options.TransportMQTT:
		clientCfg := d.cfg.MqttOptions.ToClientConfig()
		if clientCfg.ClientID == "" {
			clientCfg.ClientID = "capwap-ac-" + d.acID
		}
		d.statusTopic = topic.NewBuilder(d.cfg.MqttOptions.TopicRoot).Status(d.acID)
		clientCfg.WillTopic = d.statusTopic
		clientCfg.WillPayload = []byte(statusOffline)
		clientCfg.WillQoS = 1
		clientCfg.WillRetain = true

		client, err := mqtt.NewClient(clientCfg)
		if err != nil {
			return nil, err
		}
		d.mqtt = client
		log.Debug("MQTT notification transport configured", "clientID", clientCfg.ClientID, "statusTopic", d.statusTopic)
		return notifier.NewMQTTNotifier(client, d.cfg.MqttOptions, d.acID, ns), nil

	default:
		return nil, fmt.Errorf("%w: unknown notification transport %q", core.ErrConfigurationInvalid, d.cfg.NotifyOptions.Transport)
	}
}
