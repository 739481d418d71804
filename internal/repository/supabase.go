package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/supabase-community/supabase-go"

	"financas-bot/internal/model"
)

// SupabaseRepository guarda o razão em tabelas users, transactions e
// logs via PostgREST.
type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}

	return &SupabaseRepository{
		client: client,
	}, nil
}

func (r *SupabaseRepository) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	data, _, err := r.client.From("users").
		Select("*", "", false).
		Eq("id", strconv.FormatInt(userID, 10)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	if len(users) > 0 {
		return &users[0], nil
	}

	// Primeiro contato: cria o usuário no estado inicial.
	user := model.NewUser(userID)
	if _, _, err := r.client.From("users").Insert(user, false, "", "", "").Execute(); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *SupabaseRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	data, _, err := r.client.From("users").
		Select("*", "", false).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users: %w", err)
	}
	return users, nil
}

func (r *SupabaseRepository) updateUser(userID int64, fields map[string]interface{}) error {
	_, _, err := r.client.From("users").
		Update(fields, "", "").
		Eq("id", strconv.FormatInt(userID, 10)).
		Execute()
	return err
}

func (r *SupabaseRepository) SetBalance(ctx context.Context, userID int64, amount decimal.Decimal) error {
	if _, err := r.GetUser(ctx, userID); err != nil {
		return err
	}
	if err := r.updateUser(userID, map[string]interface{}{"balance": amount}); err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) SetSpendingLimit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	if _, err := r.GetUser(ctx, userID); err != nil {
		return err
	}
	if err := r.updateUser(userID, map[string]interface{}{"spending_limit": amount}); err != nil {
		return fmt.Errorf("failed to set spending limit: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) SetReminderMode(ctx context.Context, userID int64, enabled bool) error {
	if _, err := r.GetUser(ctx, userID); err != nil {
		return err
	}
	if err := r.updateUser(userID, map[string]interface{}{"reminder_mode": enabled}); err != nil {
		return fmt.Errorf("failed to set reminder mode: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) AddCategory(ctx context.Context, userID int64, name string) error {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasCategory(name) {
		return nil
	}
	categories := append(user.Categories, name)
	if err := r.updateUser(userID, map[string]interface{}{"categories": categories}); err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}

// AddTransaction insere o lançamento e aplica o valor no saldo. Se a
// atualização do saldo falhar, remove o lançamento recém-inserido para
// não deixar extrato e saldo divergentes. O read-modify-write do saldo
// é seguro porque o despacho é serializado por usuário.
func (r *SupabaseRepository) AddTransaction(ctx context.Context, transaction *model.Transaction) error {
	transaction.GenerateID()

	user, err := r.GetUser(ctx, transaction.UserID)
	if err != nil {
		return err
	}

	if _, _, err := r.client.From("transactions").Insert(transaction, false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	newBalance := user.Balance.Add(transaction.Signed())
	if err := r.updateUser(transaction.UserID, map[string]interface{}{"balance": newBalance}); err != nil {
		if _, _, derr := r.client.From("transactions").
			Delete("", "").
			Eq("id", transaction.ID).
			Execute(); derr != nil {
			return fmt.Errorf("failed to update balance (%w) and to roll back transaction %s: %v",
				err, transaction.ID, derr)
		}
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) GetTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]model.Transaction, error) {
	query := r.client.From("transactions").
		Select("*", "", false).
		Eq("user_id", strconv.FormatInt(userID, 10))

	if filter.StartDate != nil {
		query = query.Gte("date", filter.StartDate.Format(time.RFC3339))
	}
	if filter.EndDate != nil {
		// Limite superior exclusivo, como no TransactionFilter.
		query = query.Lt("date", filter.EndDate.Format(time.RFC3339))
	}
	if filter.Type != "" {
		query = query.Eq("type", filter.Type)
	}

	// Da mais recente para a mais antiga.
	query = query.Order("date.desc", nil)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit, "")
	}

	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	var transactions []model.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}
	return transactions, nil
}

func (r *SupabaseRepository) DeleteAllTransactions(ctx context.Context, userID int64) error {
	_, _, err := r.client.From("transactions").
		Delete("", "").
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}

	if err := r.updateUser(userID, map[string]interface{}{"balance": decimal.Zero}); err != nil {
		return fmt.Errorf("failed to reset balance: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) AppendLog(ctx context.Context, entry *model.LogEntry) error {
	if _, _, err := r.client.From("logs").Insert(entry, false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to append log: %w", err)
	}
	return nil
}
