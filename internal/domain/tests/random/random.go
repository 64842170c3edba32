package random

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
)

// Engine генерирует порядок вопросов и вариантов ответов для новой сессии.
// Каждый вызов дает независимые перестановки, общего состояния между сессиями нет.
type Engine struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewEngine создает новый Engine. Если rnd равен nil, используется
// источник, засеянный текущим временем. В тестах передается rand.New
// с фиксированным seed.
func NewEngine(rnd *rand.Rand) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rnd: rnd}
}

// GenerateOrders возвращает перестановку ID вопросов и для каждого вопроса
// перестановку ID его вариантов ответа. Пустой список вопросов — ошибка
// конфигурации, сессию из него строить нельзя.
func (e *Engine) GenerateOrders(questions []model.Question) ([]int, map[int][]int, error) {
	if len(questions) == 0 {
		return nil, nil, fmt.Errorf("question list is empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	questionOrder := make([]int, len(questions))
	for i, q := range questions {
		questionOrder[i] = q.ID
	}
	e.rnd.Shuffle(len(questionOrder), func(i, j int) {
		questionOrder[i], questionOrder[j] = questionOrder[j], questionOrder[i]
	})

	answerOrder := make(map[int][]int, len(questions))
	for _, q := range questions {
		ids := make([]int, len(q.Answers))
		for i, a := range q.Answers {
			ids[i] = a.ID
		}
		e.rnd.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
		answerOrder[q.ID] = ids
	}

	return questionOrder, answerOrder, nil
}
