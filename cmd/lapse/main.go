package main

import (
	"os"

	"github.com/psantana5/lapse/cmd/lapse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
