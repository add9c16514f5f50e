package main

import (
	"os"

	"github.com/careerkitsune/careerkitsune-ai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
