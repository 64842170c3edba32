package reload_config_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	quizService "github.com/svarg-dev/profilingbot/internal/domain/quiz/service"
	httpError "github.com/svarg-dev/profilingbot/pkg/http"
)

// ReloadConfigHandler перечитывает содержимое теста из файлов конфигурации
type ReloadConfigHandler struct {
	quizService *quizService.QuizService
}

// NewReloadConfigHandler создает новый экземпляр обработчика
func NewReloadConfigHandler(quizService *quizService.QuizService) *ReloadConfigHandler {
	return &ReloadConfigHandler{quizService: quizService}
}

// ServeHTTP метод для обработки запроса
func (h *ReloadConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.quizService.Reload(); err != nil {
		httpError.ErrorResponse(w, http.StatusUnprocessableEntity, fmt.Sprintf("Failed to reload configuration: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "reloaded"})
}
