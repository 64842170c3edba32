package active_sessions_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/svarg-dev/profilingbot/internal/domain/dto"
	"github.com/svarg-dev/profilingbot/internal/domain/sessions"
	httpError "github.com/svarg-dev/profilingbot/pkg/http"
)

// ActiveSessionsHandler отдает снимок активных сессий: кто сейчас
// проходит тест и сколько вопросов уже отвечено
type ActiveSessionsHandler struct {
	store sessions.Store
}

// NewActiveSessionsHandler создает новый экземпляр обработчика
func NewActiveSessionsHandler(store sessions.Store) *ActiveSessionsHandler {
	return &ActiveSessionsHandler{store: store}
}

// ServeHTTP метод для обработки запроса
func (h *ActiveSessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	active, err := h.store.GetActiveSessions(r.Context())
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get active sessions: %v", err))
		return
	}

	response := dto.ActiveSessionsResponse{
		Count:    len(active),
		Sessions: make([]dto.ActiveSessionInfo, 0, len(active)),
	}
	for i := range active {
		s := &active[i]
		response.Sessions = append(response.Sessions, dto.ActiveSessionInfo{
			SessionID:      s.ID.String(),
			UserID:         s.UserID,
			UserName:       s.UserName,
			StartedAt:      s.StartedAt.Format(time.RFC3339),
			AnsweredCount:  len(s.Answers),
			TotalQuestions: len(s.QuestionOrder),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
