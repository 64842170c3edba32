package admin_handler

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v4"

	"github.com/svarg-dev/profilingbot/internal/domain/sessions"
	"github.com/svarg-dev/profilingbot/internal/infra/config"
	"github.com/svarg-dev/profilingbot/internal/infra/pending"
)

// ReportRangeAction отложенное действие "ждем диапазон дат для отчета"
const ReportRangeAction = "report_range"

// AdminHandler обрабатывает команду /admin и кнопки административного меню
type AdminHandler struct {
	cfg     *config.Config
	store   sessions.Store
	pending *pending.Store
}

// NewAdminHandler возвращает новый экземпляр обработчика
func NewAdminHandler(cfg *config.Config, store sessions.Store, pendingStore *pending.Store) *AdminHandler {
	return &AdminHandler{
		cfg:     cfg,
		store:   store,
		pending: pendingStore,
	}
}

// Handle показывает административное меню. Для всех остальных команда
// недоступна.
func (h *AdminHandler) Handle(c telebot.Context) error {
	if !h.cfg.IsAdmin(c.Sender().ID) {
		return c.Send("Команда доступна только администраторам.")
	}

	markup := &telebot.ReplyMarkup{}
	statsBtn := markup.Data("📊 Статистика", "admin_stats")
	reportBtn := markup.Data("📅 Отчет за период", "admin_report")
	markup.Inline(markup.Row(statsBtn), markup.Row(reportBtn))

	return c.Send("Административное меню:", &telebot.SendOptions{ReplyMarkup: markup})
}

// HandleStats отправляет сводку по активным и завершенным сессиям
func (h *AdminHandler) HandleStats(c telebot.Context) error {
	if !h.cfg.IsAdmin(c.Sender().ID) {
		return c.Respond(&telebot.CallbackResponse{Text: "Недостаточно прав."})
	}

	ctx := context.Background()
	active, err := h.store.GetActiveSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to get active sessions: %w", err)
	}
	completedCount, err := h.store.CompletedCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count completed sessions: %w", err)
	}

	message := fmt.Sprintf("📊 *Статистика*\n\nАктивных сессий: %d\nЗавершенных тестов: %d",
		len(active), completedCount)

	if err := c.Send(message, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}); err != nil {
		return err
	}
	return c.Respond(&telebot.CallbackResponse{})
}

// HandleReport запоминает, что от администратора ждут диапазон дат
func (h *AdminHandler) HandleReport(c telebot.Context) error {
	if !h.cfg.IsAdmin(c.Sender().ID) {
		return c.Respond(&telebot.CallbackResponse{Text: "Недостаточно прав."})
	}

	h.pending.Set(c.Sender().ID, ReportRangeAction, "")

	err := c.Send("Введите диапазон дат в формате `2006-01-02 2006-01-02` (от и до).",
		&telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	if err != nil {
		return err
	}
	return c.Respond(&telebot.CallbackResponse{})
}

// GetHandlerFunc возвращает обработчик команды в формате telebot.HandlerFunc
func (h *AdminHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
