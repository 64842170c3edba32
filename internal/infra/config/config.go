package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config параметры приложения. Секреты (токен бота, пароль базы,
// секрет административного API) можно переопределить переменными
// окружения, в том числе из файла .env.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	TelegramBot struct {
		Token               string `yaml:"token"`
		Mode                string `yaml:"mode"` // "webhook" или "polling"
		WebhookURL          string `yaml:"webhook_url"`
		ListenAddr          string `yaml:"listen_addr"`
		PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
		Debug               bool   `yaml:"debug"`
	} `yaml:"telegram_bot"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"dbname"`
	} `yaml:"database"`
	Storage struct {
		Type    string `yaml:"type"` // "postgres", "json" или "memory"
		DataDir string `yaml:"data_dir"`
	} `yaml:"storage"`
	Quiz struct {
		ConfigDir string `yaml:"config_dir"`
	} `yaml:"quiz"`
	Admin struct {
		IDs               []int64 `yaml:"ids"`
		JWTSecret         string  `yaml:"jwt_secret"`
		PendingTTLMinutes int     `yaml:"pending_ttl_minutes"`
	} `yaml:"admin"`
}

// PollInterval интервал лонгпуллинга
func (c *Config) PollInterval() time.Duration {
	if c.TelegramBot.PollIntervalSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TelegramBot.PollIntervalSeconds) * time.Second
}

// PendingTTL время жизни отложенных действий администратора
func (c *Config) PendingTTL() time.Duration {
	if c.Admin.PendingTTLMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.Admin.PendingTTLMinutes) * time.Minute
}

// IsAdmin проверяет, входит ли пользователь в список администраторов
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LoadConfig загружает конфигурацию из YAML-файла и применяет
// переопределения из окружения (.env загружается, если существует).
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			fmt.Println("f.Close() failed ", err)
		}
	}(f)

	config := &Config{}
	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, err
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		config.TelegramBot.Token = token
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if secret := os.Getenv("ADMIN_JWT_SECRET"); secret != "" {
		config.Admin.JWTSecret = secret
	}

	if config.TelegramBot.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}

	return config, nil
}
