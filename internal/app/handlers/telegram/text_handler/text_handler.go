package text_handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/telebot.v4"

	"github.com/svarg-dev/profilingbot/internal/app/handlers/telegram/admin_handler"
	"github.com/svarg-dev/profilingbot/internal/domain/sessions"
	"github.com/svarg-dev/profilingbot/internal/infra/pending"
)

// TextHandler обрабатывает произвольные текстовые сообщения. Сейчас
// единственный сценарий — ввод диапазона дат для отчета администратора.
type TextHandler struct {
	store   sessions.Store
	pending *pending.Store
}

// NewTextHandler возвращает новый экземпляр обработчика
func NewTextHandler(store sessions.Store, pendingStore *pending.Store) *TextHandler {
	return &TextHandler{store: store, pending: pendingStore}
}

// Handle проверяет отложенное действие пользователя и выполняет его.
// Сообщения без отложенного действия молча игнорируются.
func (h *TextHandler) Handle(c telebot.Context) error {
	userID := c.Sender().ID

	action, ok := h.pending.Get(userID)
	if !ok {
		return nil
	}

	switch action.Kind {
	case admin_handler.ReportRangeAction:
		h.pending.Delete(userID)
		return h.handleReportRange(c)
	default:
		h.pending.Delete(userID)
		return nil
	}
}

// handleReportRange строит отчет по завершенным тестам за введенный период
func (h *TextHandler) handleReportRange(c telebot.Context) error {
	fields := strings.Fields(c.Text())
	if len(fields) != 2 {
		return c.Send("Не удалось разобрать диапазон. Ожидается формат `2006-01-02 2006-01-02`.",
			&telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}

	from, err := time.Parse("2006-01-02", fields[0])
	if err != nil {
		return c.Send(fmt.Sprintf("Неверная дата начала: %s", fields[0]))
	}
	to, err := time.Parse("2006-01-02", fields[1])
	if err != nil {
		return c.Send(fmt.Sprintf("Неверная дата конца: %s", fields[1]))
	}
	// Конец диапазона включает весь день
	to = to.Add(24*time.Hour - time.Nanosecond)

	ctx := context.Background()
	completed, err := h.store.GetCompleted(ctx, &from, &to)
	if err != nil {
		return fmt.Errorf("failed to get completed sessions: %w", err)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 *Отчет %s — %s*\n\nЗавершено тестов: %d\n",
		fields[0], fields[1], len(completed)))
	for i, s := range completed {
		if i >= 20 {
			b.WriteString(fmt.Sprintf("... и еще %d\n", len(completed)-i))
			break
		}
		b.WriteString(fmt.Sprintf("%s — %s (%s)\n",
			s.CompletedAt.Format("2006-01-02 15:04"), s.UserName, s.ResultTypeName))
	}

	return c.Send(b.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *TextHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
