package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Intent é o propósito classificado de uma mensagem, dentro de uma
// enumeração fechada.
type Intent string

const (
	IntentAddExpense         Intent = "add_expense"
	IntentAddIncome          Intent = "add_income"
	IntentSetBalance         Intent = "set_balance"
	IntentSetLimit           Intent = "set_limit"
	IntentReport             Intent = "report"
	IntentHelp               Intent = "help"
	IntentShowBalance        Intent = "show_balance"
	IntentListTransactions   Intent = "list_transactions"
	IntentDeleteAll          Intent = "delete_all"
	IntentAddCategory        Intent = "add_category"
	IntentListCategories     Intent = "list_categories"
	IntentActivateReminder   Intent = "activate_reminder"
	IntentDeactivateReminder Intent = "deactivate_reminder"
	IntentUncertain          Intent = "uncertain"
)

// intentNames mapeia a frase que o modelo devolve para a intenção.
var intentNames = map[string]Intent{
	"adicionar uma despesa":        IntentAddExpense,
	"adicionar uma receita":        IntentAddIncome,
	"definir o saldo":              IntentSetBalance,
	"definir o limite de gastos":   IntentSetLimit,
	"gerar um relatório":           IntentReport,
	"pedir ajuda":                  IntentHelp,
	"ver saldo":                    IntentShowBalance,
	"listar transações":            IntentListTransactions,
	"apagar todas as transações":   IntentDeleteAll,
	"adicionar uma categoria":      IntentAddCategory,
	"listar categorias":            IntentListCategories,
	"ativar modo lembrete":         IntentActivateReminder,
	"desativar modo lembrete":      IntentDeactivateReminder,
}

// Analysis é a saída estruturada da classificação: intenção mais os
// slots extraídos. Amount nil significa slot ausente ou não numérico.
type Analysis struct {
	Intent      Intent
	Description string
	Amount      *decimal.Decimal
	Name        string
}

// CategoryResult é a saída da resolução de categoria. Suggested indica
// que o nome não bate com nenhuma categoria conhecida e precisa de
// aprovação do usuário.
type CategoryResult struct {
	Name      string
	Suggested bool
}

const personaPrefix = "Você é um assistente financeiro. "

const intentPrompt = `Analise a mensagem em português: %q. Determine a intenção do usuário entre:
- adicionar uma despesa (ex.: "camisa 20")
- adicionar uma receita (ex.: "salário 1850")
- definir o saldo (ex.: "adicionar 1000 reais")
- definir o limite de gastos (ex.: "limite 500")
- gerar um relatório (ex.: "relatório do mês")
- pedir ajuda (ex.: "como usar")
- ver saldo (ex.: "mostrar saldo")
- listar transações (ex.: "listar transações")
- apagar todas as transações (ex.: "apagar tudo")
- adicionar uma categoria (ex.: "adicionar categoria transporte")
- listar categorias (ex.: "listar categorias")
- ativar modo lembrete (ex.: "ativar modo lembrete")
- desativar modo lembrete (ex.: "desativar modo lembrete")
Para despesas, receitas e adicionar categoria, extraia a descrição, valor ou nome da categoria. Responda no formato:
intenção: [intenção]
descrição: [descrição]
valor: [valor]
nome: [nome da categoria]
Se não for possível determinar, responda "intenção: incerto".`

const categoryPrompt = `Categorize o item: %q. Categorias disponíveis: %s. Se nenhuma for adequada, sugira uma nova categoria. Responda apenas com o nome da categoria ou a sugestão.`

// Classifier transforma texto livre em Analysis usando o modelo de
// linguagem. Cada chamada ao modelo carrega seu próprio timeout,
// independente do prazo das interações pendentes.
type Classifier struct {
	model   TextModel
	timeout time.Duration
}

func NewClassifier(model TextModel, timeout time.Duration) *Classifier {
	return &Classifier{model: model, timeout: timeout}
}

// Classify faz exatamente uma chamada ao modelo por mensagem e
// interpreta a resposta no formato chave:valor. Linha de intenção
// ausente ou desconhecida vira IntentUncertain; valor não numérico vira
// Amount nil (slot ausente), nunca erro.
func (c *Classifier) Classify(ctx context.Context, text string) (Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := personaPrefix + fmt.Sprintf(intentPrompt, text)
	response, err := c.model.Generate(ctx, prompt)
	if err != nil {
		return Analysis{}, fmt.Errorf("classify: %w", err)
	}
	return parseAnalysis(response), nil
}

func parseAnalysis(response string) Analysis {
	analysis := Analysis{Intent: IntentUncertain}

	for _, line := range strings.Split(response, "\n") {
		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}
		switch key {
		case "intenção":
			if intent, known := intentNames[strings.ToLower(value)]; known {
				analysis.Intent = intent
			}
		case "descrição":
			analysis.Description = value
		case "valor":
			if amount, err := decimal.NewFromString(value); err == nil {
				analysis.Amount = &amount
			}
		case "nome":
			analysis.Name = value
		}
	}
	return analysis
}

func splitKeyValue(line string) (key, value string, ok bool) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(parts[0])), strings.TrimSpace(parts[1]), true
}

// ResolveCategory pede ao modelo uma categoria para a descrição dada,
// entre as conhecidas do usuário. Resposta sem correspondência
// (comparação sem diferenciar maiúsculas) volta como sugestão.
func (c *Classifier) ResolveCategory(ctx context.Context, description string, known []string) (CategoryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := personaPrefix + fmt.Sprintf(categoryPrompt, description, strings.Join(known, ", "))
	response, err := c.model.Generate(ctx, prompt)
	if err != nil {
		return CategoryResult{}, fmt.Errorf("resolve category: %w", err)
	}

	name := strings.ToLower(strings.TrimSpace(response))
	name = strings.TrimSpace(strings.TrimPrefix(name, "sugestão:"))

	for _, cat := range known {
		if strings.EqualFold(cat, name) {
			return CategoryResult{Name: cat}, nil
		}
	}
	return CategoryResult{Name: name, Suggested: true}, nil
}
