package main

import (
	"fmt"
	"os"

	"github.com/mmynk/standbys/internal/config"
)

var version = "dev"

func main() {
	envFile := os.Getenv("STANDBYS_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCommand(&cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
