package service

import (
	"github.com/shopspring/decimal"
)

// CommandKind enumera os comandos executáveis.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdAddExpense
	CmdAddIncome
	CmdSetBalance
	CmdSetLimit
	CmdReport
	CmdHelp
	CmdShowBalance
	CmdListTransactions
	CmdDeleteAll
	CmdAddCategory
	CmdListCategories
	CmdActivateReminder
	CmdDeactivateReminder
)

// Command é um comando resolvido, pronto para execução. Os campos
// preenchidos dependem do Kind: lançamentos carregam valor, descrição
// e categoria; add_category carrega Name; os demais só o Kind.
type Command struct {
	Kind        CommandKind
	Amount      decimal.Decimal
	Description string
	Category    string
	Name        string
}
