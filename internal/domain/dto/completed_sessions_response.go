package dto

// CompletedSessionInfo краткая запись о завершенной сессии для отчета
type CompletedSessionInfo struct {
	SessionID      string `json:"session_id"`
	UserID         int64  `json:"user_id"`
	UserName       string `json:"user_name"`
	StartedAt      string `json:"started_at"`
	CompletedAt    string `json:"completed_at"`
	ResultTypeID   int    `json:"result_type_id"`
	ResultTypeName string `json:"result_type_name"`
	AnswerCount    int    `json:"answer_count"`
}

// CompletedSessionsResponse отчет по завершенным сессиям за период
type CompletedSessionsResponse struct {
	Count    int                    `json:"count"`
	From     string                 `json:"from,omitempty"`
	To       string                 `json:"to,omitempty"`
	Sessions []CompletedSessionInfo `json:"sessions"`
}
