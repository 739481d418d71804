package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"financas-bot/internal/ai"
	"financas-bot/internal/conversation"
	"financas-bot/internal/model"
	"financas-bot/internal/repository"
)

// IntentClassifier é o que o resolvedor precisa do classificador.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) (ai.Analysis, error)
	ResolveCategory(ctx context.Context, description string, known []string) (ai.CategoryResult, error)
}

// Resolution é a saída da resolução: exatamente um dos campos está
// preenchido. Command está pronto para executar; Clarify e Approve são
// continuações que viram interação pendente.
type Resolution struct {
	Command *Command
	Clarify *conversation.PendingAdd
	Approve *conversation.PendingAdd
}

// Resolver transforma a análise do classificador em um comando
// executável, validando os slots obrigatórios e resolvendo a categoria
// dos lançamentos.
type Resolver struct {
	classifier IntentClassifier
	repo       repository.Repository
	ambiguous  []string
	log        zerolog.Logger
}

func NewResolver(classifier IntentClassifier, repo repository.Repository, ambiguous []string, log zerolog.Logger) *Resolver {
	return &Resolver{classifier: classifier, repo: repo, ambiguous: ambiguous, log: log}
}

// Resolve aplica as regras de slots por intenção. Lançamentos com
// termo ambíguo na descrição pedem esclarecimento antes de qualquer
// resolução de categoria; slot obrigatório ausente vira CmdUnknown.
func (r *Resolver) Resolve(ctx context.Context, analysis ai.Analysis, user *model.User) (Resolution, error) {
	switch analysis.Intent {
	case ai.IntentAddExpense, ai.IntentAddIncome:
		if analysis.Description == "" || analysis.Amount == nil {
			return Resolution{Command: &Command{Kind: CmdUnknown}}, nil
		}
		add := conversation.PendingAdd{
			Type:        model.TypeExpense,
			Description: analysis.Description,
			Amount:      *analysis.Amount,
		}
		if analysis.Intent == ai.IntentAddIncome {
			add.Type = model.TypeIncome
		}
		// O esclarecimento vem antes da categoria: não vale a pena
		// categorizar um lançamento que ainda pode mudar de tipo.
		if r.isAmbiguous(analysis.Description) {
			add.Type = ""
			return Resolution{Clarify: &add}, nil
		}
		return r.ResolveAdd(ctx, add, user)

	case ai.IntentSetBalance:
		if analysis.Amount == nil {
			return Resolution{Command: &Command{Kind: CmdUnknown}}, nil
		}
		return Resolution{Command: &Command{Kind: CmdSetBalance, Amount: *analysis.Amount}}, nil

	case ai.IntentSetLimit:
		if analysis.Amount == nil {
			return Resolution{Command: &Command{Kind: CmdUnknown}}, nil
		}
		return Resolution{Command: &Command{Kind: CmdSetLimit, Amount: *analysis.Amount}}, nil

	case ai.IntentAddCategory:
		if analysis.Name == "" {
			return Resolution{Command: &Command{Kind: CmdUnknown}}, nil
		}
		return Resolution{Command: &Command{Kind: CmdAddCategory, Name: analysis.Name}}, nil

	case ai.IntentReport:
		return Resolution{Command: &Command{Kind: CmdReport}}, nil
	case ai.IntentHelp:
		return Resolution{Command: &Command{Kind: CmdHelp}}, nil
	case ai.IntentShowBalance:
		return Resolution{Command: &Command{Kind: CmdShowBalance}}, nil
	case ai.IntentListTransactions:
		return Resolution{Command: &Command{Kind: CmdListTransactions}}, nil
	case ai.IntentDeleteAll:
		return Resolution{Command: &Command{Kind: CmdDeleteAll}}, nil
	case ai.IntentListCategories:
		return Resolution{Command: &Command{Kind: CmdListCategories}}, nil
	case ai.IntentActivateReminder:
		return Resolution{Command: &Command{Kind: CmdActivateReminder}}, nil
	case ai.IntentDeactivateReminder:
		return Resolution{Command: &Command{Kind: CmdDeactivateReminder}}, nil
	}
	return Resolution{Command: &Command{Kind: CmdUnknown}}, nil
}

// ResolveAdd conclui um lançamento já desambiguado: resolve a
// categoria e devolve o comando pronto, ou a continuação de aprovação
// quando a categoria é nova. É o mesmo passo tanto para lançamentos
// diretos quanto para os que passaram por esclarecimento.
func (r *Resolver) ResolveAdd(ctx context.Context, add conversation.PendingAdd, user *model.User) (Resolution, error) {
	result, err := r.resolveCategory(ctx, add.Description, user)
	if err != nil {
		return Resolution{}, err
	}

	if result.Suggested {
		add.Suggested = result.Name
		return Resolution{Approve: &add}, nil
	}

	kind := CmdAddExpense
	if add.Type == model.TypeIncome {
		kind = CmdAddIncome
	}
	return Resolution{Command: &Command{
		Kind:        kind,
		Amount:      add.Amount,
		Description: add.Description,
		Category:    result.Name,
	}}, nil
}

// resolveCategory tenta o modelo de linguagem e, se ele falhar, cai
// para o classificador bayesiano treinado no histórico do usuário.
func (r *Resolver) resolveCategory(ctx context.Context, description string, user *model.User) (ai.CategoryResult, error) {
	result, err := r.classifier.ResolveCategory(ctx, description, user.Categories)
	if err == nil {
		return result, nil
	}
	r.log.Warn().Err(err).Int64("user_id", user.ID).Msg("category model failed, trying history fallback")

	txns, txErr := r.repo.GetTransactions(ctx, user.ID, repository.TransactionFilter{})
	if txErr != nil {
		return ai.CategoryResult{}, err
	}
	suggester, sErr := ai.NewSuggester(txns)
	if sErr != nil {
		return ai.CategoryResult{}, err
	}
	name, ok := suggester.Suggest(description)
	if !ok {
		return ai.CategoryResult{}, err
	}
	return ai.CategoryResult{Name: name, Suggested: !user.HasCategory(name)}, nil
}

func (r *Resolver) isAmbiguous(description string) bool {
	lower := strings.ToLower(description)
	for _, term := range r.ambiguous {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
