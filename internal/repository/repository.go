package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"financas-bot/internal/model"
)

// Repository é o contrato do armazenamento do razão: usuários,
// transações e log de auditoria.
type Repository interface {
	// Usuários. GetUser cria o usuário no primeiro contato.
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SetBalance(ctx context.Context, userID int64, amount decimal.Decimal) error
	SetSpendingLimit(ctx context.Context, userID int64, amount decimal.Decimal) error
	SetReminderMode(ctx context.Context, userID int64, enabled bool) error
	AddCategory(ctx context.Context, userID int64, name string) error

	// Transações. AddTransaction grava o lançamento e aplica o valor
	// com sinal no saldo como uma unidade; uma falha no meio não pode
	// deixar saldo e extrato divergirem em silêncio.
	AddTransaction(ctx context.Context, transaction *model.Transaction) error
	GetTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]model.Transaction, error)
	// DeleteAllTransactions apaga o extrato do usuário e zera o saldo.
	DeleteAllTransactions(ctx context.Context, userID int64) error

	// Auditoria
	AppendLog(ctx context.Context, entry *model.LogEntry) error
}

// TransactionFilter restringe a consulta de transações. O intervalo é
// meio-aberto: StartDate inclusivo, EndDate exclusivo, para que meses
// adjacentes nunca contem a mesma transação duas vezes. O resultado é
// sempre ordenado da mais recente para a mais antiga.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      string // "expense" ou "income"; vazio traz ambos
	Limit     int
}

// Matches informa se a transação passa pelo filtro.
func (f TransactionFilter) Matches(t *model.Transaction) bool {
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && !t.Date.Before(*f.EndDate) {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	return true
}
