package main

import (
	"os"

	"github.com/protoworx/rippledocs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
