package model

// BotConfig основные параметры теста и тексты сообщений бота
type BotConfig struct {
	Name               string `json:"name"`
	WelcomeMessage     string `json:"welcome_message"`
	ChannelLink        string `json:"channel_link"`
	IntroMessage       string `json:"intro_message"`
	CompletionMessage  string `json:"completion_message"`
	TotalQuestions     int    `json:"total_questions"`
	AnswersPerQuestion int    `json:"answers_per_question"`
}
