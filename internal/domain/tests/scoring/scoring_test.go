package scoring

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
)

func testTypes() []model.PersonalityType {
	return []model.PersonalityType{
		{ID: 1, Name: "Социальный"},
		{ID: 2, Name: "Творческий"},
		{ID: 3, Name: "Технический"},
	}
}

func testQuestions() []model.Question {
	return []model.Question{
		{ID: 1, Text: "Вопрос 1", Answers: []model.AnswerOption{
			{ID: 1, PersonalityTypeID: 1},
			{ID: 2, PersonalityTypeID: 2},
			{ID: 3, PersonalityTypeID: 3},
		}},
		{ID: 2, Text: "Вопрос 2", Answers: []model.AnswerOption{
			{ID: 1, PersonalityTypeID: 1},
			{ID: 2, PersonalityTypeID: 2},
			{ID: 3, PersonalityTypeID: 3},
		}},
		{ID: 3, Text: "Вопрос 3", Answers: []model.AnswerOption{
			{ID: 1, PersonalityTypeID: 1},
			{ID: 2, PersonalityTypeID: 2},
			{ID: 3, PersonalityTypeID: 3},
		}},
	}
}

// completedSession создает завершенную сессию с переданными ответами.
func completedSession(answers map[int]int) *model.TestSession {
	now := time.Now().UTC()
	return &model.TestSession{
		ID:          uuid.New(),
		UserID:      100,
		UserName:    "tester",
		StartedAt:   now.Add(-time.Minute),
		CompletedAt: &now,
		Answers:     answers,
	}
}

// TestCalculateScores проверяет подсчет баллов по типам личности.
func TestCalculateScores(t *testing.T) {
	session := completedSession(map[int]int{1: 2, 2: 2, 3: 3})

	scores, err := CalculateScores(session, testQuestions(), testTypes())
	if err != nil {
		t.Fatalf("CalculateScores вернул ошибку: %v", err)
	}

	// Элемент 0 зарезервирован, дальше баллы по ID типов.
	expected := []int{0, 0, 2, 1}
	if len(scores) != len(expected) {
		t.Fatalf("Ожидался вектор длины %d, получено %d", len(expected), len(scores))
	}
	for i := range expected {
		if scores[i] != expected[i] {
			t.Errorf("scores[%d]: ожидалось %d, получено %d", i, expected[i], scores[i])
		}
	}
}

// TestDeterminePersonalityType_TieBreak проверяет, что при равенстве баллов
// побеждает тип с меньшим ID.
func TestDeterminePersonalityType_TieBreak(t *testing.T) {
	scores := []int{0, 2, 2, 1}
	if got := DeterminePersonalityType(scores, testTypes()); got != 1 {
		t.Errorf("При равенстве баллов ожидался тип 1, получен %d", got)
	}
}

// TestDeterminePersonalityType_OrderIndependent проверяет, что порядок типов
// во входном срезе не влияет на результат.
func TestDeterminePersonalityType_OrderIndependent(t *testing.T) {
	scores := []int{0, 2, 2, 1}
	shuffled := []model.PersonalityType{
		{ID: 3, Name: "Технический"},
		{ID: 2, Name: "Творческий"},
		{ID: 1, Name: "Социальный"},
	}
	if got := DeterminePersonalityType(scores, shuffled); got != 1 {
		t.Errorf("Ожидался тип 1 независимо от порядка типов, получен %d", got)
	}
}

// TestDeterminePersonalityType_AllZero проверяет запасной вариант: при нулевых
// баллах возвращается тип с минимальным ID.
func TestDeterminePersonalityType_AllZero(t *testing.T) {
	scores := []int{0, 0, 0, 0}
	if got := DeterminePersonalityType(scores, testTypes()); got != 1 {
		t.Errorf("При нулевых баллах ожидался тип 1, получен %d", got)
	}
}

// TestCalculateResult проверяет сборку результата и запись типа в сессию.
func TestCalculateResult(t *testing.T) {
	session := completedSession(map[int]int{1: 3, 2: 3, 3: 2})

	result, err := CalculateResult(session, testQuestions(), testTypes())
	if err != nil {
		t.Fatalf("CalculateResult вернул ошибку: %v", err)
	}

	if result.PersonalityTypeID != 3 {
		t.Errorf("Ожидался тип 3, получен %d", result.PersonalityTypeID)
	}
	if session.ResultTypeID != 3 {
		t.Errorf("В сессию не записан ID типа: %d", session.ResultTypeID)
	}
	if session.ResultTypeName != "Технический" {
		t.Errorf("В сессию не записано имя типа: %q", session.ResultTypeName)
	}
	if result.SessionID != session.ID || result.UserID != session.UserID {
		t.Error("Результат не привязан к сессии")
	}
}

// TestCalculateResult_NotCompleted проверяет, что для незавершенной сессии
// возвращается ErrSessionNotCompleted.
func TestCalculateResult_NotCompleted(t *testing.T) {
	session := completedSession(map[int]int{1: 1})
	session.CompletedAt = nil

	_, err := CalculateResult(session, testQuestions(), testTypes())
	if !errors.Is(err, ErrSessionNotCompleted) {
		t.Errorf("Ожидалась ErrSessionNotCompleted, получено: %v", err)
	}
}

// TestCalculateScores_UnknownAnswer проверяет ошибку при ответе, которого нет
// в конфигурации.
func TestCalculateScores_UnknownAnswer(t *testing.T) {
	session := completedSession(map[int]int{1: 99})
	if _, err := CalculateScores(session, testQuestions(), testTypes()); err == nil {
		t.Error("Ожидалась ошибка для неизвестного ответа")
	}
}
