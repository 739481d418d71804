package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// User é o estado persistente de um usuário do assistente.
// Criado sob demanda no primeiro contato; nunca é removido.
type User struct {
	ID            int64            `json:"id"`
	Balance       decimal.Decimal  `json:"balance"`
	SpendingLimit *decimal.Decimal `json:"spending_limit,omitempty"`
	Categories    []string         `json:"categories"`
	ReminderMode  bool             `json:"reminder_mode"`
}

// NewUser cria um usuário no estado inicial: saldo zero, sem limite,
// sem categorias, lembretes desligados.
func NewUser(id int64) *User {
	return &User{
		ID:         id,
		Balance:    decimal.Zero,
		Categories: []string{},
	}
}

// HasCategory compares case-insensitively.
func (u *User) HasCategory(name string) bool {
	for _, c := range u.Categories {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
