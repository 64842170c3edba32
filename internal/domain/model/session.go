package model

import (
	"time"

	"github.com/google/uuid"
)

// TestSession одна попытка прохождения теста одним пользователем.
// Сессия хранит собственный порядок вопросов и вариантов ответов,
// а ответы всегда записываются по оригинальным ID.
type TestSession struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	StartedAt time.Time `json:"started_at"`
	// CompletedAt заполняется ровно один раз при завершении теста.
	// Наличие значения является признаком завершенности сессии.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// CurrentQuestionIndex позиция текущего вопроса в порядке сессии, с 1.
	// Значение totalQuestions+1 означает, что все вопросы отвечены.
	CurrentQuestionIndex int `json:"current_question_index"`
	// Answers оригинальный QuestionID -> оригинальный AnswerID
	Answers map[int]int `json:"answers"`
	// QuestionOrder перестановка оригинальных QuestionID, фиксируется при создании
	QuestionOrder []int `json:"question_order"`
	// AnswerOrder для каждого вопроса перестановка оригинальных AnswerID
	AnswerOrder map[int][]int `json:"answer_order"`

	ResultTypeID   int    `json:"result_type_id"`
	ResultTypeName string `json:"result_type_name,omitempty"`
}

// IsCompleted сообщает, завершена ли сессия
func (s *TestSession) IsCompleted() bool {
	return s.CompletedAt != nil
}

// OriginalQuestionID возвращает оригинальный ID вопроса по позиции в сессии (с 1)
func (s *TestSession) OriginalQuestionID(position int) (int, bool) {
	if position < 1 || position > len(s.QuestionOrder) {
		return 0, false
	}
	return s.QuestionOrder[position-1], true
}

// OrderedAnswerIDs возвращает ID вариантов ответа вопроса в порядке показа этой сессии
func (s *TestSession) OrderedAnswerIDs(questionID int) []int {
	return s.AnswerOrder[questionID]
}

// Clone возвращает глубокую копию сессии, чтобы хранилища не отдавали
// наружу свои внутренние структуры.
func (s *TestSession) Clone() *TestSession {
	cp := *s
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		cp.CompletedAt = &t
	}
	cp.Answers = make(map[int]int, len(s.Answers))
	for k, v := range s.Answers {
		cp.Answers[k] = v
	}
	cp.QuestionOrder = append([]int(nil), s.QuestionOrder...)
	cp.AnswerOrder = make(map[int][]int, len(s.AnswerOrder))
	for k, v := range s.AnswerOrder {
		cp.AnswerOrder[k] = append([]int(nil), v...)
	}
	return &cp
}
