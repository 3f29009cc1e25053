package main

import (
	"os"

	"github.com/smartcapwap/capwap-ac/cmd/capwap-acctl/app"
)

func main() {
	if err := app.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
