package model

import "time"

// LogEntry registra uma mensagem recebida e a resposta enviada.
// Append-only; gravado após cada mensagem tratada.
type LogEntry struct {
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
}
