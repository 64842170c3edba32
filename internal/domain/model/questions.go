package model

// Question представляет вопрос теста профилирования.
// Список вопросов загружается из конфигурации и после загрузки не меняется.
type Question struct {
	ID      int            `json:"id"`
	Text    string         `json:"text"`
	Answers []AnswerOption `json:"answers"`
}

// AnswerOption вариант ответа, привязанный к типу личности по его ID
type AnswerOption struct {
	ID                int    `json:"id"`
	Text              string `json:"text"`
	PersonalityTypeID int    `json:"personality_type_id"`
}

// FindAnswer ищет вариант ответа по его оригинальному ID
func (q *Question) FindAnswer(answerID int) *AnswerOption {
	for i := range q.Answers {
		if q.Answers[i].ID == answerID {
			return &q.Answers[i]
		}
	}
	return nil
}
