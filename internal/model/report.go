package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotal agrega receitas e despesas de uma categoria no mês.
type CategoryTotal struct {
	Name    string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// MonthlyReport é o agregado de um mês-calendário, usado tanto no
// texto do relatório quanto no gráfico.
type MonthlyReport struct {
	Month        time.Time // primeiro dia do mês
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Categories   []CategoryTotal
}

// Net é o saldo do período (receitas menos despesas).
func (r *MonthlyReport) Net() decimal.Decimal {
	return r.TotalIncome.Sub(r.TotalExpense)
}
