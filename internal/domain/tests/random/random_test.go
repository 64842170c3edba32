package random

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
)

func testQuestions() []model.Question {
	return []model.Question{
		{ID: 1, Text: "Вопрос 1", Answers: []model.AnswerOption{
			{ID: 1, Text: "А", PersonalityTypeID: 1},
			{ID: 2, Text: "Б", PersonalityTypeID: 2},
			{ID: 3, Text: "В", PersonalityTypeID: 3},
		}},
		{ID: 2, Text: "Вопрос 2", Answers: []model.AnswerOption{
			{ID: 1, Text: "А", PersonalityTypeID: 1},
			{ID: 2, Text: "Б", PersonalityTypeID: 2},
			{ID: 3, Text: "В", PersonalityTypeID: 3},
		}},
		{ID: 3, Text: "Вопрос 3", Answers: []model.AnswerOption{
			{ID: 1, Text: "А", PersonalityTypeID: 1},
			{ID: 2, Text: "Б", PersonalityTypeID: 2},
			{ID: 3, Text: "В", PersonalityTypeID: 3},
		}},
	}
}

// TestGenerateOrders_Permutation проверяет, что порядок вопросов — это
// перестановка всех оригинальных ID, а для каждого вопроса порядок ответов —
// перестановка ID его вариантов.
func TestGenerateOrders_Permutation(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(42)))
	questions := testQuestions()

	questionOrder, answerOrder, err := engine.GenerateOrders(questions)
	if err != nil {
		t.Fatalf("GenerateOrders вернул ошибку: %v", err)
	}

	if len(questionOrder) != len(questions) {
		t.Fatalf("Ожидалось %d вопросов в порядке, получено %d", len(questions), len(questionOrder))
	}

	seen := make(map[int]bool)
	for _, id := range questionOrder {
		if seen[id] {
			t.Errorf("Вопрос с ID %d повторяется в порядке", id)
		}
		seen[id] = true
	}
	for _, q := range questions {
		if !seen[q.ID] {
			t.Errorf("Вопрос с ID %d отсутствует в порядке", q.ID)
		}
	}

	for _, q := range questions {
		ids, ok := answerOrder[q.ID]
		if !ok {
			t.Fatalf("Нет порядка ответов для вопроса %d", q.ID)
		}
		if len(ids) != len(q.Answers) {
			t.Errorf("Вопрос %d: ожидалось %d ответов, получено %d", q.ID, len(q.Answers), len(ids))
		}
		seenAnswers := make(map[int]bool)
		for _, id := range ids {
			if q.FindAnswer(id) == nil {
				t.Errorf("Вопрос %d: неизвестный ID ответа %d", q.ID, id)
			}
			if seenAnswers[id] {
				t.Errorf("Вопрос %d: ответ %d повторяется", q.ID, id)
			}
			seenAnswers[id] = true
		}
	}
}

// TestGenerateOrders_Deterministic проверяет, что с одинаковым seed
// генерируются одинаковые перестановки.
func TestGenerateOrders_Deterministic(t *testing.T) {
	questions := testQuestions()

	first, firstAnswers, err := NewEngine(rand.New(rand.NewSource(7))).GenerateOrders(questions)
	if err != nil {
		t.Fatalf("GenerateOrders вернул ошибку: %v", err)
	}
	second, secondAnswers, err := NewEngine(rand.New(rand.NewSource(7))).GenerateOrders(questions)
	if err != nil {
		t.Fatalf("GenerateOrders вернул ошибку: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Порядок вопросов не детерминирован: %v != %v", first, second)
	}
	if !reflect.DeepEqual(firstAnswers, secondAnswers) {
		t.Errorf("Порядок ответов не детерминирован: %v != %v", firstAnswers, secondAnswers)
	}
}

// TestGenerateOrders_EmptyQuestions проверяет, что пустой список вопросов — ошибка.
func TestGenerateOrders_EmptyQuestions(t *testing.T) {
	engine := NewEngine(nil)
	if _, _, err := engine.GenerateOrders(nil); err == nil {
		t.Error("Ожидалась ошибка для пустого списка вопросов")
	}
}
