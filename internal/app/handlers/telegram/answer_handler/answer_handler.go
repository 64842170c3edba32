package answer_handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
	resultsService "github.com/svarg-dev/profilingbot/internal/domain/results/service"
	testsService "github.com/svarg-dev/profilingbot/internal/domain/tests/service"
)

// AnswerHandler обрабатывает нажатие кнопки с вариантом ответа
type AnswerHandler struct {
	bot           *telebot.Bot
	testService   *testsService.TestService
	resultService *resultsService.ResultService
}

// NewAnswerHandler возвращает новый экземпляр обработчика
func NewAnswerHandler(
	bot *telebot.Bot,
	testService *testsService.TestService,
	resultService *resultsService.ResultService,
) *AnswerHandler {
	return &AnswerHandler{
		bot:           bot,
		testService:   testService,
		resultService: resultService,
	}
}

// Handle разбирает callback вида "ans_<questionID>_<answerID>" и передает
// ответ сервису тестирования. Ошибки валидации переводятся в понятные
// пользователю сообщения, состояние сессии при них не меняется.
func (h *AnswerHandler) Handle(c telebot.Context) error {
	callbackData := c.Callback().Data

	// Очищаем callbackData от нестандартных символов
	cleanedData := strings.TrimSpace(callbackData)
	cleanedData = strings.ReplaceAll(cleanedData, "\f", "")
	cleanedData = strings.ReplaceAll(cleanedData, "\\f", "")

	if !strings.HasPrefix(cleanedData, "ans_") {
		return nil
	}

	parts := strings.Split(cleanedData, "_")
	if len(parts) != 3 {
		return fmt.Errorf("invalid callback data: %s", callbackData)
	}

	questionID, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("invalid question ID: %w", err)
	}
	answerID, err := strconv.Atoi(parts[2])
	if err != nil {
		return fmt.Errorf("invalid answer ID: %w", err)
	}

	ctx := context.Background()
	session, err := h.testService.GetActiveSession(ctx, c.Sender().ID)
	if err != nil {
		return fmt.Errorf("failed to get active session: %w", err)
	}
	if session == nil {
		return c.Send("Тест не найден. Пожалуйста, начните тест заново командой /start.")
	}

	session, err = h.testService.AnswerQuestion(ctx, session.ID, questionID, answerID)
	if err != nil {
		switch {
		case errors.Is(err, testsService.ErrSessionCompleted):
			return c.Send("Тест уже завершен.")
		case errors.Is(err, testsService.ErrSessionNotFound):
			return c.Send("Тест не найден. Пожалуйста, начните тест заново командой /start.")
		case errors.Is(err, testsService.ErrQuestionMismatch):
			return c.Respond(&telebot.CallbackResponse{
				Text: "Этот вопрос уже не актуален, ответьте на текущий.",
			})
		case errors.Is(err, testsService.ErrAnswerNotFound), errors.Is(err, testsService.ErrQuestionNotFound):
			return c.Respond(&telebot.CallbackResponse{
				Text: "Такого варианта ответа нет.",
			})
		default:
			return fmt.Errorf("failed to answer question: %w", err)
		}
	}

	// Убираем сообщение с отвеченным вопросом, чтобы кнопки нельзя было
	// нажать повторно
	if err := h.bot.Delete(c.Message()); err != nil {
		return fmt.Errorf("failed to delete previous question: %w", err)
	}

	if session.IsCompleted() {
		return h.sendResult(ctx, c, session)
	}

	question, answerIDs, err := h.testService.GetCurrentQuestion(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("failed to get current question: %w", err)
	}
	if question == nil {
		return nil
	}

	return h.sendQuestion(c.Sender(), question, answerIDs, session.CurrentQuestionIndex, len(session.QuestionOrder))
}

// sendResult отправляет пользователю сообщение с результатом завершенного теста
func (h *AnswerHandler) sendResult(ctx context.Context, c telebot.Context, session *model.TestSession) error {
	result, err := h.testService.CalculateResult(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to calculate result: %w", err)
	}

	message, err := h.resultService.BuildResultMessage(result)
	if err != nil {
		return fmt.Errorf("failed to build result message: %w", err)
	}

	return c.Send(message, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
}

// sendQuestion отправляет вопрос с вариантами ответа в порядке показа этой сессии
func (h *AnswerHandler) sendQuestion(recipient *telebot.User, question *model.Question, answerIDs []int, questionNumber, totalQuestions int) error {
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
func (h *AnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
