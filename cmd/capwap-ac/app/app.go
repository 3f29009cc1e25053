package app

import (
	"fmt"

	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/smartcapwap/capwap-ac/cmd/capwap-ac/app/options"
	"github.com/smartcapwap/capwap-ac/pkg/app"
	"github.com/smartcapwap/capwap-ac/pkg/log"
)

const (
	commandName = "capwap-ac"
	commandDesc = `The capwap-ac backend owns the management channel of a CAPWAP access
controller. It serves the management SOAP endpoint and forwards WTP reset
notifications to the management system over SOAP or MQTT.`
)

func NewApp() *app.App {
	opts := options.NewACOptions()
	application := app.NewApp(
		commandName,
		"Launch the CAPWAP access controller management backend",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.ACOptions) app.RunFunc {
	return func() error {
		log.Init(opts.Log)
		defer log.Sync()

		ctx := genericapiserver.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		daemon, err := cfg.NewDaemon()
		if err != nil {
			return fmt.Errorf("failed to create ac backend: %w", err)
		}

		return daemon.Run(ctx)
	}
}
