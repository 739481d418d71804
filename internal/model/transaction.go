package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de transação.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction é um lançamento imutável no extrato do usuário.
// Amount é sempre positivo; o sinal vem do Type.
type Transaction struct {
	ID             string          `json:"id"`
	UserID         int64           `json:"user_id"`
	Date           time.Time       `json:"date"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	FixedExpenseID string          `json:"fixed_expense_id,omitempty"` // reservado
}

// GenerateID gera um novo UUID para a transação, se ainda não definido
func (t *Transaction) GenerateID() {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
}

// Signed devolve o valor com sinal: positivo para receita, negativo
// para despesa.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
