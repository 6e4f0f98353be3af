// Package main is the clip-service entry point (HTTP + WebSocket).
package main

import (
	"log"

	"github.com/clipops/clip-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
