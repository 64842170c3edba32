package poller

import (
	"log"

	tele "gopkg.in/telebot.v4"

	"github.com/svarg-dev/profilingbot/internal/infra/config"
)

// NewPoller создает Poller в зависимости от режима работы бота:
// вебхук для развертывания за публичным URL, лонгпуллинг для всего
// остального.
func NewPoller(cfg *config.Config) tele.Poller {
	if cfg.TelegramBot.Mode == "webhook" {
		if cfg.TelegramBot.WebhookURL == "" {
			log.Fatalf("webhook mode requires webhook_url to be set")
		}
		return &tele.Webhook{
			Listen: cfg.TelegramBot.ListenAddr,
			Endpoint: &tele.WebhookEndpoint{
				PublicURL: cfg.TelegramBot.WebhookURL,
			},
		}
	}
	return &tele.LongPoller{Timeout: cfg.PollInterval()}
}
