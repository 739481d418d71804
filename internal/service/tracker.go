package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"financas-bot/internal/model"
	"financas-bot/internal/repository"
)

// Tracker executa os comandos resolvidos contra o repositório e monta
// a resposta de cada um. Toda resposta vem de modelo fixo por comando.
type Tracker struct {
	repo repository.Repository
}

func NewTracker(repo repository.Repository) *Tracker {
	return &Tracker{repo: repo}
}

// AddTransaction grava o lançamento e devolve a confirmação. Despesas
// podem ganhar anexos sobre o limite de gastos do mês.
func (t *Tracker) AddTransaction(ctx context.Context, userID int64, cmd *Command) (string, error) {
	txn := &model.Transaction{
		UserID:      userID,
		Date:        time.Now(),
		Type:        model.TypeExpense,
		Amount:      cmd.Amount,
		Category:    cmd.Category,
		Description: cmd.Description,
	}
	if cmd.Kind == CmdAddIncome {
		txn.Type = model.TypeIncome
	}
	txn.GenerateID()

	if err := t.repo.AddTransaction(ctx, txn); err != nil {
		return "", fmt.Errorf("add transaction: %w", err)
	}

	if txn.Type == model.TypeIncome {
		return fmt.Sprintf("Receita de %s em %s - %s (ID: %s) adicionada!",
			money(txn.Amount), txn.Category, txn.Description, txn.ID), nil
	}

	reply := fmt.Sprintf("Beleza, adicionei %s em %s - %s (ID: %s)",
		money(txn.Amount), txn.Category, txn.Description, txn.ID)

	notes, err := t.expenseNotes(ctx, userID)
	if err != nil {
		// O lançamento já está gravado; a confirmação vale mais que os
		// anexos.
		return reply, nil
	}
	return reply + notes, nil
}

// expenseNotes monta os anexos da confirmação de despesa: com limite
// definido, a folga ou o estouro do mês; com modo lembrete, o saldo
// atual.
func (t *Tracker) expenseNotes(ctx context.Context, userID int64) (string, error) {
	user, err := t.repo.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	var notes string
	if user.SpendingLimit != nil {
		spent, err := t.monthExpenses(ctx, userID, time.Now())
		if err != nil {
			return "", err
		}
		if spent.GreaterThan(*user.SpendingLimit) {
			notes += msgOverLimit
		} else {
			left := user.SpendingLimit.Sub(spent)
			notes += fmt.Sprintf("\nAinda te sobra %s pra gastar esse mês.", money(left))
		}
	}
	if user.ReminderMode {
		if user.Balance.IsNegative() {
			notes += fmt.Sprintf("\n⚠️ Seu saldo está negativo: %s.", money(user.Balance))
		} else {
			notes += fmt.Sprintf("\nCom base no seu saldo, você ainda pode gastar %s.", money(user.Balance))
		}
	}
	return notes, nil
}

func (t *Tracker) monthExpenses(ctx context.Context, userID int64, ref time.Time) (decimal.Decimal, error) {
	start := monthStart(ref)
	end := start.AddDate(0, 1, 0)
	txns, err := t.repo.GetTransactions(ctx, userID, repository.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
		Type:      model.TypeExpense,
	})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range txns {
		total = total.Add(txns[i].Amount)
	}
	return total, nil
}

// SetBalance é um ajuste manual: sobrescreve o saldo sem criar
// transação, então não aparece no extrato nem no relatório.
func (t *Tracker) SetBalance(ctx context.Context, userID int64, amount decimal.Decimal) (string, error) {
	if err := t.repo.SetBalance(ctx, userID, amount); err != nil {
		return "", fmt.Errorf("set balance: %w", err)
	}
	return fmt.Sprintf("Saldo ajustado pra %s.", money(amount)), nil
}

func (t *Tracker) SetLimit(ctx context.Context, userID int64, amount decimal.Decimal) (string, error) {
	if err := t.repo.SetSpendingLimit(ctx, userID, amount); err != nil {
		return "", fmt.Errorf("set limit: %w", err)
	}
	return fmt.Sprintf("Limite de gastos definido em %s.", money(amount)), nil
}

func (t *Tracker) ShowBalance(ctx context.Context, userID int64) (string, error) {
	user, err := t.repo.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("show balance: %w", err)
	}
	return fmt.Sprintf("Seu saldo atual é: %s", money(user.Balance)), nil
}

// ListTransactions mostra as 10 transações mais recentes. Menos que
// isso, mostra o que há.
func (t *Tracker) ListTransactions(ctx context.Context, userID int64) (string, error) {
	txns, err := t.repo.GetTransactions(ctx, userID, repository.TransactionFilter{Limit: 10})
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}
	if len(txns) == 0 {
		return msgNoTransactions, nil
	}

	var b strings.Builder
	b.WriteString("Últimas 10 transações:")
	for i := range txns {
		txn := &txns[i]
		b.WriteString(fmt.Sprintf("\n%s: %s em %s - %s (ID: %s)",
			txn.Date.Format("02/01/2006"), money(txn.Signed()), txn.Category, txn.Description, txn.ID))
	}
	return b.String(), nil
}

func (t *Tracker) DeleteAll(ctx context.Context, userID int64) (string, error) {
	if err := t.repo.DeleteAllTransactions(ctx, userID); err != nil {
		return "", fmt.Errorf("delete all: %w", err)
	}
	return msgDeleteDone, nil
}

func (t *Tracker) AddCategory(ctx context.Context, userID int64, name string) (string, error) {
	user, err := t.repo.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("add category: %w", err)
	}
	if user.HasCategory(name) {
		return msgCategoryExists, nil
	}
	if err := t.repo.AddCategory(ctx, userID, name); err != nil {
		return "", fmt.Errorf("add category: %w", err)
	}
	return fmt.Sprintf("Categoria '%s' adicionada!", name), nil
}

func (t *Tracker) ListCategories(ctx context.Context, userID int64) (string, error) {
	user, err := t.repo.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list categories: %w", err)
	}
	if len(user.Categories) == 0 {
		return msgNoCategories, nil
	}
	return fmt.Sprintf("Suas categorias são: %s", strings.Join(user.Categories, ", ")), nil
}

func (t *Tracker) SetReminderMode(ctx context.Context, userID int64, enabled bool) (string, error) {
	if err := t.repo.SetReminderMode(ctx, userID, enabled); err != nil {
		return "", fmt.Errorf("set reminder mode: %w", err)
	}
	if enabled {
		return msgReminderOn, nil
	}
	return msgReminderOff, nil
}

// MonthlyReport agrega o mês-calendário de ref. A resposta textual vem
// junto do agregado, que alimenta o gráfico.
func (t *Tracker) MonthlyReport(ctx context.Context, userID int64, ref time.Time) (string, *model.MonthlyReport, error) {
	start := monthStart(ref)
	end := start.AddDate(0, 1, 0)
	txns, err := t.repo.GetTransactions(ctx, userID, repository.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return "", nil, fmt.Errorf("monthly report: %w", err)
	}

	monthName := monthNames[start.Month()-1]
	if len(txns) == 0 {
		return fmt.Sprintf("Nenhuma transação em %s de %d.", monthName, start.Year()), nil, nil
	}

	report := &model.MonthlyReport{Month: start}
	index := make(map[string]int)
	for i := range txns {
		txn := &txns[i]
		pos, ok := index[txn.Category]
		if !ok {
			pos = len(report.Categories)
			index[txn.Category] = pos
			report.Categories = append(report.Categories, model.CategoryTotal{Name: txn.Category})
		}
		if txn.Type == model.TypeIncome {
			report.TotalIncome = report.TotalIncome.Add(txn.Amount)
			report.Categories[pos].Income = report.Categories[pos].Income.Add(txn.Amount)
		} else {
			report.TotalExpense = report.TotalExpense.Add(txn.Amount)
			report.Categories[pos].Expense = report.Categories[pos].Expense.Add(txn.Amount)
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 Relatório de %s de %d:\n", monthName, start.Year()))
	b.WriteString(fmt.Sprintf("Receitas: %s\n", money(report.TotalIncome)))
	b.WriteString(fmt.Sprintf("Despesas: %s\n", money(report.TotalExpense)))
	b.WriteString(fmt.Sprintf("Saldo do mês: %s\n", money(report.Net())))
	b.WriteString("\nPor categoria:")
	for _, c := range report.Categories {
		b.WriteString(fmt.Sprintf("\n- %s: +%s / -%s", c.Name, money(c.Income), money(c.Expense)))
	}
	return b.String(), report, nil
}

func monthStart(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
}

func money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
