package service

import (
	"fmt"
	"log"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
	"github.com/svarg-dev/profilingbot/internal/domain/quiz/repository"
)

// QuizService отдает проверенное содержимое теста: конфигурацию бота,
// вопросы и типы личности. Содержимое считается неизменным между
// перезагрузками конфигурации.
type QuizService struct {
	repo *repository.FileRepository
}

// NewQuizService создает новый экземпляр QuizService
func NewQuizService(repo *repository.FileRepository) *QuizService {
	return &QuizService{repo: repo}
}

// GetBotConfig возвращает конфигурацию бота
func (s *QuizService) GetBotConfig() (*model.BotConfig, error) {
	return s.repo.BotConfig()
}

// GetQuestions возвращает полный список вопросов теста
func (s *QuizService) GetQuestions() ([]model.Question, error) {
	return s.repo.Questions()
}

// GetPersonalityTypes возвращает список типов личности
func (s *QuizService) GetPersonalityTypes() ([]model.PersonalityType, error) {
	return s.repo.PersonalityTypes()
}

// GetQuestion возвращает вопрос по оригинальному ID, nil если не найден
func (s *QuizService) GetQuestion(questionID int) (*model.Question, error) {
	questions, err := s.repo.Questions()
	if err != nil {
		return nil, err
	}
	for i := range questions {
		if questions[i].ID == questionID {
			return &questions[i], nil
		}
	}
	return nil, nil
}

// GetPersonalityType возвращает тип личности по ID, nil если не найден
func (s *QuizService) GetPersonalityType(typeID int) (*model.PersonalityType, error) {
	types, err := s.repo.PersonalityTypes()
	if err != nil {
		return nil, err
	}
	for i := range types {
		if types[i].ID == typeID {
			return &types[i], nil
		}
	}
	return nil, nil
}

// GetTotalQuestionCount возвращает число вопросов теста из конфигурации
func (s *QuizService) GetTotalQuestionCount() (int, error) {
	cfg, err := s.repo.BotConfig()
	if err != nil {
		return 0, err
	}
	return cfg.TotalQuestions, nil
}

// Validate проверяет согласованность содержимого теста. Ошибка здесь —
// фатальная проблема конфигурации, запускать бота с ней нельзя.
func (s *QuizService) Validate() error {
	cfg, err := s.repo.BotConfig()
	if err != nil {
		return fmt.Errorf("failed to load bot config: %w", err)
	}
	questions, err := s.repo.Questions()
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}
	types, err := s.repo.PersonalityTypes()
	if err != nil {
		return fmt.Errorf("failed to load personality types: %w", err)
	}

	if len(questions) == 0 {
		return fmt.Errorf("question list is empty")
	}
	if len(types) == 0 {
		return fmt.Errorf("no personality types configured")
	}

	if len(questions) != cfg.TotalQuestions {
		log.Printf("questions count mismatch: expected %d, got %d", cfg.TotalQuestions, len(questions))
	}

	typeIDs := make(map[int]bool, len(types))
	for _, t := range types {
		typeIDs[t.ID] = true
	}

	for _, q := range questions {
		if len(q.Answers) != cfg.AnswersPerQuestion {
			log.Printf("question %d has %d answers, expected %d", q.ID, len(q.Answers), cfg.AnswersPerQuestion)
		}
		for _, a := range q.Answers {
			if !typeIDs[a.PersonalityTypeID] {
				return fmt.Errorf("question %d, answer %d: unknown personality type %d",
					q.ID, a.ID, a.PersonalityTypeID)
			}
		}
	}

	return nil
}

// Reload сбрасывает кэш конфигурации и сразу проверяет новое содержимое
func (s *QuizService) Reload() error {
	s.repo.Reload()
	if err := s.Validate(); err != nil {
		return fmt.Errorf("failed to validate reloaded configuration: %w", err)
	}
	return nil
}
