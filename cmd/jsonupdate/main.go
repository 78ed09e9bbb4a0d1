package main

import (
	"os"

	"github.com/bassista/go_jsonupdate/cmd/jsonupdate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
