package start_handler

import (
	"fmt"

	"gopkg.in/telebot.v4"

	quizService "github.com/svarg-dev/profilingbot/internal/domain/quiz/service"
)

// StartHandler структура для обработки команды /start
type StartHandler struct {
	quizService *quizService.QuizService
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(quizService *quizService.QuizService) *StartHandler {
	return &StartHandler{quizService: quizService}
}

// Handle метод, который будет использоваться для обработки команды /start
func (h *StartHandler) Handle(c telebot.Context) error {
	cfg, err := h.quizService.GetBotConfig()
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to load bot config: %v", err))
	}

	message := cfg.WelcomeMessage
	if cfg.ChannelLink != "" {
		message = fmt.Sprintf("%s\n\n📣 Наш канал: %s", message, cfg.ChannelLink)
	}

	markup := &telebot.ReplyMarkup{}
	startBtn := markup.Data("🚀 Начать тест", "start_test")
	markup.Inline(markup.Row(startBtn))

	return c.Send(message, &telebot.SendOptions{
		ParseMode:   telebot.ModeHTML,
		ReplyMarkup: markup,
	})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
