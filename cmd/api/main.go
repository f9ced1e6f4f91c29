package main

import (
	"os"

	_ "time/tzdata"
)

// @title Animal RFID Relay API
// @version 1.0
// @description Lookup de animales por tag RFID con notificaciones y live feed.
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
