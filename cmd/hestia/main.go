// Package main is the entry point of hestia.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/hestia/cmd/hestia/app"
)

func main() {
	app.NewApp().Run()
}
