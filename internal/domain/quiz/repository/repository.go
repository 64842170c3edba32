package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
)

// FileRepository загружает содержимое теста (конфигурацию бота, вопросы,
// типы личности) из JSON-файлов каталога configDir и кэширует его в памяти.
// Содержимое неизменно на все время жизни сессии; Reload сбрасывает кэш,
// когда файлы обновили.
type FileRepository struct {
	configDir string

	mu        sync.RWMutex
	config    *model.BotConfig
	questions []model.Question
	types     []model.PersonalityType
}

// NewFileRepository создает новый экземпляр FileRepository
func NewFileRepository(configDir string) *FileRepository {
	return &FileRepository{configDir: configDir}
}

// BotConfig возвращает конфигурацию бота. Если файл отсутствует,
// используются значения по умолчанию.
func (r *FileRepository) BotConfig() (*model.BotConfig, error) {
	r.mu.RLock()
	if r.config != nil {
		cfg := *r.config
		r.mu.RUnlock()
		return &cfg, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		path := filepath.Join(r.configDir, "test-config.json")
		cfg := defaultBotConfig()
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read bot config %s: %w", path, err)
			}
		} else if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bot config %s: %w", path, err)
		}
		r.config = cfg
	}

	cfg := *r.config
	return &cfg, nil
}

// Questions возвращает список вопросов теста
func (r *FileRepository) Questions() ([]model.Question, error) {
	r.mu.RLock()
	if r.questions != nil {
		qs := r.questions
		r.mu.RUnlock()
		return qs, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.questions == nil {
		path := filepath.Join(r.configDir, "questions.json")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read questions %s: %w", path, err)
		}
		var questions []model.Question
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal questions %s: %w", path, err)
		}
		r.questions = questions
	}
	return r.questions, nil
}

// PersonalityTypes возвращает список типов личности
func (r *FileRepository) PersonalityTypes() ([]model.PersonalityType, error) {
	r.mu.RLock()
	if r.types != nil {
		ts := r.types
		r.mu.RUnlock()
		return ts, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.types == nil {
		path := filepath.Join(r.configDir, "personality-types.json")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read personality types %s: %w", path, err)
		}
		var types []model.PersonalityType
		if err := json.Unmarshal(data, &types); err != nil {
			return nil, fmt.Errorf("failed to unmarshal personality types %s: %w", path, err)
		}
		r.types = types
	}
	return r.types, nil
}

// Reload сбрасывает кэш; следующие обращения заново прочитают файлы
func (r *FileRepository) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = nil
	r.questions = nil
	r.types = nil
}

func defaultBotConfig() *model.BotConfig {
	return &model.BotConfig{
		Name:               "Профайлинг-бот",
		WelcomeMessage:     "Привет! Пройди короткий тест и узнай свой тип личности.",
		IntroMessage:       "Отвечай не раздумывая, правильных и неправильных ответов нет.",
		CompletionMessage:  "Тест завершен! Вот твой результат:",
		TotalQuestions:     8,
		AnswersPerQuestion: 5,
	}
}
