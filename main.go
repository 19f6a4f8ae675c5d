package main

import (
	"os"

	"github.com/kvesta/hostvuln/cli"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
