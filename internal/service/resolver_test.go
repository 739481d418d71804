package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"financas-bot/internal/ai"
	"financas-bot/internal/model"
)

func newTestResolver(cl *fakeClassifier, repo *memRepo) *Resolver {
	return NewResolver(cl, repo, []string{"transferência"}, zerolog.Nop())
}

func TestResolveMissingSlots(t *testing.T) {
	cl := &fakeClassifier{}
	r := newTestResolver(cl, newMemRepo())
	user := model.NewUser(1)

	cases := []struct {
		name     string
		analysis ai.Analysis
	}{
		{"despesa sem valor", ai.Analysis{Intent: ai.IntentAddExpense, Description: "camisa"}},
		{"despesa sem descrição", ai.Analysis{Intent: ai.IntentAddExpense, Amount: amt("20")}},
		{"saldo sem valor", ai.Analysis{Intent: ai.IntentSetBalance}},
		{"limite sem valor", ai.Analysis{Intent: ai.IntentSetLimit}},
		{"categoria sem nome", ai.Analysis{Intent: ai.IntentAddCategory}},
		{"incerto", ai.Analysis{Intent: ai.IntentUncertain}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := r.Resolve(context.Background(), tc.analysis, user)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if res.Command == nil || res.Command.Kind != CmdUnknown {
				t.Errorf("resolution = %+v, want CmdUnknown", res)
			}
		})
	}
	if cl.calls() != 0 {
		t.Errorf("ResolveCategory called %d times for incomplete analyses, want 0", cl.calls())
	}
}

// O termo ambíguo pede esclarecimento antes de qualquer resolução de
// categoria, mesmo quando a classificação veio decidida.
func TestResolveAmbiguousTermBeforeCategory(t *testing.T) {
	cl := &fakeClassifier{category: ai.CategoryResult{Name: "outros"}}
	r := newTestResolver(cl, newMemRepo())
	user := model.NewUser(1)

	res, err := r.Resolve(context.Background(), ai.Analysis{
		Intent:      ai.IntentAddExpense,
		Description: "transferência pro João",
		Amount:      amt("50"),
	}, user)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Clarify == nil {
		t.Fatalf("resolution = %+v, want clarification", res)
	}
	if res.Clarify.Type != "" {
		t.Errorf("pending type = %q, want empty until clarified", res.Clarify.Type)
	}
	if cl.calls() != 0 {
		t.Errorf("ResolveCategory called %d times before clarification, want 0", cl.calls())
	}
}

func TestResolveDirectCommands(t *testing.T) {
	r := newTestResolver(&fakeClassifier{}, newMemRepo())
	user := model.NewUser(1)

	cases := []struct {
		intent ai.Intent
		kind   CommandKind
	}{
		{ai.IntentReport, CmdReport},
		{ai.IntentHelp, CmdHelp},
		{ai.IntentShowBalance, CmdShowBalance},
		{ai.IntentListTransactions, CmdListTransactions},
		{ai.IntentDeleteAll, CmdDeleteAll},
		{ai.IntentListCategories, CmdListCategories},
		{ai.IntentActivateReminder, CmdActivateReminder},
		{ai.IntentDeactivateReminder, CmdDeactivateReminder},
	}
	for _, tc := range cases {
		res, err := r.Resolve(context.Background(), ai.Analysis{Intent: tc.intent}, user)
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", tc.intent, err)
		}
		if res.Command == nil || res.Command.Kind != tc.kind {
			t.Errorf("Resolve(%s) = %+v, want kind %v", tc.intent, res, tc.kind)
		}
	}
}

func TestResolveAddWithKnownCategory(t *testing.T) {
	cl := &fakeClassifier{category: ai.CategoryResult{Name: "roupas"}}
	r := newTestResolver(cl, newMemRepo())
	user := model.NewUser(1)
	user.Categories = []string{"roupas"}

	res, err := r.Resolve(context.Background(), ai.Analysis{
		Intent:      ai.IntentAddExpense,
		Description: "camisa",
		Amount:      amt("20"),
	}, user)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Command == nil {
		t.Fatalf("resolution = %+v, want a command", res)
	}
	if res.Command.Kind != CmdAddExpense || res.Command.Category != "roupas" {
		t.Errorf("command = %+v, want expense in roupas", res.Command)
	}
	if res.Command.Amount.StringFixed(2) != "20.00" {
		t.Errorf("amount = %s, want 20.00", res.Command.Amount)
	}
}

func TestResolveAddSuggestsNewCategory(t *testing.T) {
	cl := &fakeClassifier{category: ai.CategoryResult{Name: "vestuário", Suggested: true}}
	r := newTestResolver(cl, newMemRepo())
	user := model.NewUser(1)

	res, err := r.Resolve(context.Background(), ai.Analysis{
		Intent:      ai.IntentAddIncome,
		Description: "venda de camisa",
		Amount:      amt("35"),
	}, user)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Approve == nil {
		t.Fatalf("resolution = %+v, want approval continuation", res)
	}
	if res.Approve.Suggested != "vestuário" || res.Approve.Type != model.TypeIncome {
		t.Errorf("approval = %+v, want suggested vestuário income", res.Approve)
	}
}

// Com o modelo de categorias fora do ar, o histórico do usuário decide.
func TestResolveCategoryFallsBackToHistory(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()
	seed := []struct {
		desc, cat string
	}{
		{"arroz e feijão", "mercado"},
		{"pão de queijo", "mercado"},
		{"uber pro centro", "transporte"},
		{"ônibus", "transporte"},
	}
	for _, s := range seed {
		repo.AddTransaction(ctx, &model.Transaction{
			UserID: 1, Type: model.TypeExpense,
			Amount: decimal.New(10, 0), Category: s.cat, Description: s.desc,
		})
	}

	cl := &fakeClassifier{categoryErr: context.DeadlineExceeded}
	r := newTestResolver(cl, repo)
	user := model.NewUser(1)
	user.Categories = []string{"mercado", "transporte"}

	res, err := r.Resolve(ctx, ai.Analysis{
		Intent:      ai.IntentAddExpense,
		Description: "arroz branco",
		Amount:      amt("12"),
	}, user)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Command == nil || res.Command.Category != "mercado" {
		t.Errorf("resolution = %+v, want expense in mercado via history", res)
	}
}

// Sem histórico suficiente, a falha do modelo vira erro do chamador.
func TestResolveCategoryErrorWithoutHistory(t *testing.T) {
	cl := &fakeClassifier{categoryErr: context.DeadlineExceeded}
	r := newTestResolver(cl, newMemRepo())
	user := model.NewUser(1)

	_, err := r.Resolve(context.Background(), ai.Analysis{
		Intent:      ai.IntentAddExpense,
		Description: "camisa",
		Amount:      amt("20"),
	}, user)
	if err == nil {
		t.Fatal("expected an error when both model and fallback are unavailable")
	}
}
