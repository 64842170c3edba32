package main

import (
	"log"
	"os"

	"github.com/svarg-dev/profilingbot/internal/app"
)

// Запуск только Telegram-бота, без административного HTTP API.
// Удобно для локальной разработки в режиме лонгпуллинга.
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/values_example.yaml"
	}

	application, err := app.NewApp(configPath)
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}

	if err := application.ListenAndServeTelegram(); err != nil {
		log.Fatalf("failed to start Telegram bot: %v", err)
	}

	select {}
}
