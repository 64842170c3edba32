package main

import (
	"log"
	"os"

	"github.com/svarg-dev/profilingbot/internal/app"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/values_example.yaml"
	}

	application, err := app.NewApp(configPath)
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}

	if err := application.ListenAndServe(); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
