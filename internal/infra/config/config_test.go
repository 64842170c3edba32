package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testYAML = `server:
  host: "127.0.0.1"
  port: "8080"
telegram_bot:
  token: "token-from-file"
  mode: "polling"
  poll_interval_seconds: 5
storage:
  type: "json"
  data_dir: "data"
quiz:
  config_dir: "configs/quiz"
admin:
  ids: [100, 200]
  pending_ttl_minutes: 30
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}
	return path
}

// TestLoadConfig проверяет загрузку конфигурации из YAML-файла.
func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, testYAML))
	if err != nil {
		t.Fatalf("LoadConfig вернул ошибку: %v", err)
	}

	if cfg.TelegramBot.Token != "token-from-file" {
		t.Errorf("Ожидался токен из файла, получено %q", cfg.TelegramBot.Token)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Ожидался порт 8080, получено %q", cfg.Server.Port)
	}
	if cfg.Storage.Type != "json" {
		t.Errorf("Ожидался тип хранилища json, получено %q", cfg.Storage.Type)
	}
	if cfg.PollInterval() != 5*time.Second {
		t.Errorf("Ожидался интервал 5s, получено %v", cfg.PollInterval())
	}
	if cfg.PendingTTL() != 30*time.Minute {
		t.Errorf("Ожидался TTL 30m, получено %v", cfg.PendingTTL())
	}
}

// TestLoadConfig_EnvOverride проверяет, что переменные окружения имеют
// приоритет над файлом.
func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-from-env")

	cfg, err := LoadConfig(writeConfigFile(t, testYAML))
	if err != nil {
		t.Fatalf("LoadConfig вернул ошибку: %v", err)
	}
	if cfg.TelegramBot.Token != "token-from-env" {
		t.Errorf("Ожидался токен из окружения, получено %q", cfg.TelegramBot.Token)
	}
}

// TestLoadConfig_MissingToken проверяет, что отсутствие токена — ошибка.
func TestLoadConfig_MissingToken(t *testing.T) {
	yaml := `telegram_bot:
  mode: "polling"
`
	if _, err := LoadConfig(writeConfigFile(t, yaml)); err == nil {
		t.Error("Ожидалась ошибка для пустого токена")
	}
}

// TestLoadConfig_MissingFile проверяет ошибку для несуществующего файла.
func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "no-such.yaml")); err == nil {
		t.Error("Ожидалась ошибка для несуществующего файла")
	}
}

// TestConfig_Defaults проверяет значения по умолчанию для интервалов.
func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{}

	if cfg.PollInterval() != 10*time.Second {
		t.Errorf("Ожидался интервал по умолчанию 10s, получено %v", cfg.PollInterval())
	}
	if cfg.PendingTTL() != 15*time.Minute {
		t.Errorf("Ожидался TTL по умолчанию 15m, получено %v", cfg.PendingTTL())
	}
}

// TestConfig_IsAdmin проверяет список администраторов.
func TestConfig_IsAdmin(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, testYAML))
	if err != nil {
		t.Fatalf("LoadConfig вернул ошибку: %v", err)
	}

	if !cfg.IsAdmin(100) || !cfg.IsAdmin(200) {
		t.Error("Пользователи из списка должны быть администраторами")
	}
	if cfg.IsAdmin(300) {
		t.Error("Пользователь вне списка не должен быть администратором")
	}
}
