package model

import (
	"time"

	"github.com/google/uuid"
)

// TestResult итог завершенной сессии. Значение вычисляется по требованию
// и после создания не изменяется.
type TestResult struct {
	SessionID   uuid.UUID `json:"session_id"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	PersonalityTypeID int `json:"personality_type_id"`
	// Scores баллы по типам личности, индекс — ID типа, Scores[0] не используется
	Scores []int `json:"scores"`
}

// TotalScore суммарное число набранных баллов
func (r *TestResult) TotalScore() int {
	total := 0
	for _, s := range r.Scores {
		total += s
	}
	return total
}

// MaxScore наибольший балл среди типов
func (r *TestResult) MaxScore() int {
	max := 0
	for _, s := range r.Scores {
		if s > max {
			max = s
		}
	}
	return max
}
