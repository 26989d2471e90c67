package main

import (
	"fmt"
	"os"

	"github.com/searchktools/login-server/app"
	"github.com/searchktools/login-server/config"
)

func main() {
	cfg := config.New()

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}
