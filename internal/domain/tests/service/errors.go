package service

import "errors"

// Ошибки операций над сессиями. Вызывающая сторона различает их через
// errors.Is и дает пользователю разный ответ: "не найдено" против
// "неверное состояние" против "устаревшая кнопка".
var (
	// ErrSessionNotFound сессия с таким ID не найдена в активных
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionCompleted операция над уже завершенной сессией
	ErrSessionCompleted = errors.New("session already completed")

	// ErrQuestionMismatch ответ пришел не на текущий вопрос сессии
	// (устаревший или повторно доставленный callback)
	ErrQuestionMismatch = errors.New("question is not the current one")

	// ErrQuestionNotFound вопрос с таким ID отсутствует в конфигурации
	ErrQuestionNotFound = errors.New("question not found")

	// ErrAnswerNotFound вариант ответа не принадлежит вопросу
	ErrAnswerNotFound = errors.New("answer not found for question")
)
