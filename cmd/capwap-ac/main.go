package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/smartcapwap/capwap-ac/cmd/capwap-ac/app"
)

func main() {
	app.NewApp().Run()
}
