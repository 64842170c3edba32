package start_test_handler

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
	quizService "github.com/svarg-dev/profilingbot/internal/domain/quiz/service"
	testsService "github.com/svarg-dev/profilingbot/internal/domain/tests/service"
)

// StartTestHandler структура для обработки нажатия кнопки "Начать тест"
type StartTestHandler struct {
	bot         *telebot.Bot
	testService *testsService.TestService
	quizService *quizService.QuizService
}

// NewStartTestHandler возвращает новый экземпляр обработчика
func NewStartTestHandler(
	bot *telebot.Bot,
	testService *testsService.TestService,
	quizService *quizService.QuizService,
) *StartTestHandler {
	return &StartTestHandler{
		bot:         bot,
		testService: testService,
		quizService: quizService,
	}
}

// Handle обрабатывает callback от кнопки "Начать тест". Повторное нажатие
// при активной сессии не создает новую, а продолжает с текущего вопроса.
func (h *StartTestHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	userID := c.Sender().ID
	userName := c.Sender().Username
	if userName == "" {
		userName = c.Sender().FirstName
	}

	session, err := h.testService.StartTest(ctx, userID, userName)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: fmt.Sprintf("Ошибка при начале теста: %v", err),
		})
	}

	// Вступление отправляем только для свежей сессии
	if len(session.Answers) == 0 {
		cfg, err := h.quizService.GetBotConfig()
		if err != nil {
			return fmt.Errorf("failed to load bot config: %w", err)
		}
		if cfg.IntroMessage != "" {
			if err := c.Send(cfg.IntroMessage, &telebot.SendOptions{ParseMode: telebot.ModeHTML}); err != nil {
				return err
			}
		}
	}

	question, answerIDs, err := h.testService.GetCurrentQuestion(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("failed to get current question: %w", err)
	}
	if question == nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Тест уже завершен."})
	}

	err = h.sendQuestion(c.Sender(), question, answerIDs, session.CurrentQuestionIndex, len(session.QuestionOrder))
	if err != nil {
		return err
	}

	return c.Respond(&telebot.CallbackResponse{Text: "Тест начат!"})
}

// sendQuestion отправляет вопрос с вариантами ответа в порядке показа этой сессии
func (h *StartTestHandler) sendQuestion(recipient *telebot.User, question *model.Question, answerIDs []int, questionNumber, totalQuestions int) error {
	var messageBuilder strings.Builder
	messageBuilder.WriteString(fmt.Sprintf("❓ *Вопрос %d из %d:*\n%s", questionNumber, totalQuestions, question.Text))

	markup := h.bot.NewMarkup()
	rows := make([]telebot.Row, 0, len(answerIDs))
	for _, answerID := range answerIDs {
		answer := question.FindAnswer(answerID)
		if answer == nil {
			continue
		}
		callbackData := fmt.Sprintf("ans_%d_%d", question.ID, answerID)
		rows = append(rows, markup.Row(markup.Data(answer.Text, callbackData)))
	}
	markup.Inline(rows...)

	_, err := h.bot.Send(recipient, messageBuilder.String(), &telebot.SendOptions{
		ParseMode:   telebot.ModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		return fmt.Errorf("failed to send question: %w", err)
	}
	return nil
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
