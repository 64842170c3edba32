package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
)

// QuizProvider минимальный доступ к содержимому теста, нужный для
// формирования текста результата
type QuizProvider interface {
	GetBotConfig() (*model.BotConfig, error)
	GetPersonalityTypes() ([]model.PersonalityType, error)
	GetPersonalityType(typeID int) (*model.PersonalityType, error)
}

// ResultService формирует текстовое сообщение с результатом теста.
// Генерация карточек-изображений сюда не входит.
type ResultService struct {
	quiz QuizProvider
}

// NewResultService создает новый экземпляр ResultService
func NewResultService(quiz QuizProvider) *ResultService {
	return &ResultService{quiz: quiz}
}

// BuildResultMessage собирает сообщение о результате: описание
// доминирующего типа личности и баллы по всем типам.
func (s *ResultService) BuildResultMessage(result *model.TestResult) (string, error) {
	cfg, err := s.quiz.GetBotConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load bot config: %w", err)
	}

	personality, err := s.quiz.GetPersonalityType(result.PersonalityTypeID)
	if err != nil {
		return "", fmt.Errorf("failed to load personality type: %w", err)
	}
	if personality == nil {
		return "", fmt.Errorf("personality type %d not found", result.PersonalityTypeID)
	}

	types, err := s.quiz.GetPersonalityTypes()
	if err != nil {
		return "", fmt.Errorf("failed to load personality types: %w", err)
	}
	sorted := make([]model.PersonalityType, len(types))
	copy(sorted, types)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var b strings.Builder
	b.WriteString(cfg.CompletionMessage)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("🎯 *%s*\n\n", personality.FullName))
	b.WriteString(personality.Description)
	b.WriteString("\n\n")
	if personality.Sphere != "" {
		b.WriteString(fmt.Sprintf("✨ %s\n\n", personality.Sphere))
	}
	if personality.Strengths != "" {
		b.WriteString(fmt.Sprintf("💪 %s\n\n", personality.Strengths))
	}
	if personality.Recommendations != "" {
		b.WriteString(fmt.Sprintf("🖼 %s\n\n", personality.Recommendations))
	}

	b.WriteString("📊 *Ваши баллы по типам:*\n")
	for _, t := range sorted {
		score := 0
		if t.ID < len(result.Scores) {
			score = result.Scores[t.ID]
		}
		b.WriteString(fmt.Sprintf("%s: %d\n", t.Name, score))
	}
	b.WriteString(fmt.Sprintf("\nВедущий тип набрал %d из %d ответов.", result.MaxScore(), result.TotalScore()))

	return b.String(), nil
}
