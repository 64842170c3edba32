package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/svarg-dev/profilingbot/internal/app/handlers/http/auth"
	"github.com/svarg-dev/profilingbot/internal/infra/config"
)

// Утилита выпуска Bearer-токена для административного HTTP API.
func main() {
	configPath := flag.String("config", "configs/values_example.yaml", "путь к файлу конфигурации")
	subject := flag.String("subject", "admin", "имя владельца токена")
	ttl := flag.Duration("ttl", 24*time.Hour, "время жизни токена")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Admin.JWTSecret == "" {
		log.Fatal("admin jwt secret is not set")
	}

	token, err := auth.SignToken(cfg.Admin.JWTSecret, *subject, *ttl)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Println(token)
}
