package dto

// ActiveSessionInfo снимок активной сессии: кто проходит тест и докуда дошел
type ActiveSessionInfo struct {
	SessionID      string `json:"session_id"`
	UserID         int64  `json:"user_id"`
	UserName       string `json:"user_name"`
	StartedAt      string `json:"started_at"`
	AnsweredCount  int    `json:"answered_count"`
	TotalQuestions int    `json:"total_questions"`
}

// ActiveSessionsResponse список активных сессий
type ActiveSessionsResponse struct {
	Count    int                 `json:"count"`
	Sessions []ActiveSessionInfo `json:"sessions"`
}
