package main

import (
	"os"

	"github.com/hollg/vellum/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
