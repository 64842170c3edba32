package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
)

// ErrSessionNotCompleted возвращается при попытке посчитать результат
// незавершенной сессии. Это ошибка программирования вызывающей стороны,
// а не обычный "не найдено".
var ErrSessionNotCompleted = errors.New("session is not completed")

// CalculateScores подсчитывает баллы по типам личности для завершенной сессии.
// Индекс среза — ID типа личности, элемент 0 зарезервирован и не используется.
func CalculateScores(session *model.TestSession, questions []model.Question, types []model.PersonalityType) ([]int, error) {
	maxTypeID := 0
	for _, t := range types {
		if t.ID > maxTypeID {
			maxTypeID = t.ID
		}
	}
	scores := make([]int, maxTypeID+1)

	for questionID, answerID := range session.Answers {
		question := findQuestion(questions, questionID)
		if question == nil {
			return nil, fmt.Errorf("question %d not found in configuration", questionID)
		}
		answer := question.FindAnswer(answerID)
		if answer == nil {
			return nil, fmt.Errorf("answer %d not found for question %d", answerID, questionID)
		}
		scores[answer.PersonalityTypeID]++
	}

	return scores, nil
}

// DeterminePersonalityType выбирает доминирующий тип личности.
// Типы перебираются по возрастанию ID, лидер меняется только при строго
// большем балле, поэтому при равенстве побеждает тип с меньшим ID.
func DeterminePersonalityType(scores []int, types []model.PersonalityType) int {
	sorted := make([]model.PersonalityType, len(types))
	copy(sorted, types)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	maxScore := -1
	typeID := -1
	for _, t := range sorted {
		score := scores[t.ID]
		if score > maxScore {
			maxScore = score
			typeID = t.ID
		}
	}

	if typeID == -1 && len(sorted) > 0 {
		typeID = sorted[0].ID
	}

	return typeID
}

// CalculateResult считает результат завершенной сессии: вектор баллов и
// доминирующий тип личности. Результат записывается в сессию
// (ResultTypeID/ResultTypeName), чтобы повторное чтение завершенной сессии
// не требовало пересчета, и возвращается отдельным значением TestResult.
func CalculateResult(session *model.TestSession, questions []model.Question, types []model.PersonalityType) (*model.TestResult, error) {
	if !session.IsCompleted() {
		return nil, ErrSessionNotCompleted
	}

	scores, err := CalculateScores(session, questions, types)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate scores: %w", err)
	}

	typeID := DeterminePersonalityType(scores, types)

	session.ResultTypeID = typeID
	for _, t := range types {
		if t.ID == typeID {
			session.ResultTypeName = t.Name
			break
		}
	}

	return &model.TestResult{
		SessionID:         session.ID,
		UserID:            session.UserID,
		UserName:          session.UserName,
		StartedAt:         session.StartedAt,
		CompletedAt:       *session.CompletedAt,
		PersonalityTypeID: typeID,
		Scores:            scores,
	}, nil
}

func findQuestion(questions []model.Question, questionID int) *model.Question {
	for i := range questions {
		if questions[i].ID == questionID {
			return &questions[i]
		}
	}
	return nil
}
