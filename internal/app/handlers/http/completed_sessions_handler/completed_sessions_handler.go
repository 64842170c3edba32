package completed_sessions_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/svarg-dev/profilingbot/internal/domain/dto"
	"github.com/svarg-dev/profilingbot/internal/domain/sessions"
	httpError "github.com/svarg-dev/profilingbot/pkg/http"
)

// CompletedSessionsHandler отдает отчет по завершенным сессиям за период.
// Границы периода передаются query-параметрами from и to в формате RFC3339
// или YYYY-MM-DD; отсутствие параметра означает отсутствие ограничения.
type CompletedSessionsHandler struct {
	store sessions.Store
}

// NewCompletedSessionsHandler создает новый экземпляр обработчика
func NewCompletedSessionsHandler(store sessions.Store) *CompletedSessionsHandler {
	return &CompletedSessionsHandler{store: store}
}

// ServeHTTP метод для обработки запроса
func (h *CompletedSessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	from, err := parseTimeParam(r.URL.Query().Get("from"))
	if err != nil {
		httpError.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid 'from' parameter: %v", err))
		return
	}
	to, err := parseTimeParam(r.URL.Query().Get("to"))
	if err != nil {
		httpError.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid 'to' parameter: %v", err))
		return
	}

	completed, err := h.store.GetCompleted(r.Context(), from, to)
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get completed sessions: %v", err))
		return
	}

	response := dto.CompletedSessionsResponse{
		Count:    len(completed),
		Sessions: make([]dto.CompletedSessionInfo, 0, len(completed)),
	}
	if from != nil {
		response.From = from.Format(time.RFC3339)
	}
	if to != nil {
		response.To = to.Format(time.RFC3339)
	}

	for i := range completed {
		s := &completed[i]
		response.Sessions = append(response.Sessions, dto.CompletedSessionInfo{
			SessionID:      s.ID.String(),
			UserID:         s.UserID,
			UserName:       s.UserName,
			StartedAt:      s.StartedAt.Format(time.RFC3339),
			CompletedAt:    s.CompletedAt.Format(time.RFC3339),
			ResultTypeID:   s.ResultTypeID,
			ResultTypeName: s.ResultTypeName,
			AnswerCount:    len(s.Answers),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}

// parseTimeParam разбирает границу периода; пустая строка — без границы
func parseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
