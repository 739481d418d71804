package service

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"financas-bot/internal/ai"
	"financas-bot/internal/model"
	"financas-bot/internal/repository"
)

// memRepo é um Repository em memória para os testes do serviço.
type memRepo struct {
	mu    sync.Mutex
	users map[int64]*model.User
	txns  []model.Transaction
	logs  []model.LogEntry

	failAdd error
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[int64]*model.User)}
}

func (r *memRepo) getOrCreate(userID int64) *model.User {
	user, ok := r.users[userID]
	if !ok {
		user = model.NewUser(userID)
		r.users[userID] = user
	}
	return user
}

func (r *memRepo) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := *r.getOrCreate(userID)
	user.Categories = append([]string(nil), user.Categories...)
	return &user, nil
}

func (r *memRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *memRepo) SetBalance(ctx context.Context, userID int64, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getOrCreate(userID).Balance = amount
	return nil
}

func (r *memRepo) SetSpendingLimit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getOrCreate(userID).SpendingLimit = &amount
	return nil
}

func (r *memRepo) SetReminderMode(ctx context.Context, userID int64, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getOrCreate(userID).ReminderMode = enabled
	return nil
}

func (r *memRepo) AddCategory(ctx context.Context, userID int64, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := r.getOrCreate(userID)
	user.Categories = append(user.Categories, name)
	return nil
}

func (r *memRepo) AddTransaction(ctx context.Context, txn *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdd != nil {
		return r.failAdd
	}
	txn.GenerateID()
	r.txns = append(r.txns, *txn)
	user := r.getOrCreate(txn.UserID)
	user.Balance = user.Balance.Add(txn.Signed())
	return nil
}

func (r *memRepo) GetTransactions(ctx context.Context, userID int64, filter repository.TransactionFilter) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transaction
	for i := range r.txns {
		t := r.txns[i]
		if t.UserID != userID || !filter.Matches(&t) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memRepo) DeleteAllTransactions(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.txns[:0]
	for i := range r.txns {
		if r.txns[i].UserID != userID {
			kept = append(kept, r.txns[i])
		}
	}
	r.txns = kept
	r.getOrCreate(userID).Balance = decimal.Zero
	return nil
}

func (r *memRepo) AppendLog(ctx context.Context, entry *model.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *entry)
	return nil
}

func (r *memRepo) transactionCount(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for i := range r.txns {
		if r.txns[i].UserID == userID {
			n++
		}
	}
	return n
}

func (r *memRepo) logCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs)
}

func (r *memRepo) lastLog() (model.LogEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.logs) == 0 {
		return model.LogEntry{}, false
	}
	return r.logs[len(r.logs)-1], true
}

// fakeClassifier devolve análises programadas por texto e registra as
// chamadas de categoria.
type fakeClassifier struct {
	mu sync.Mutex

	analyses    map[string]ai.Analysis
	classifyErr error

	category      ai.CategoryResult
	categoryErr   error
	categoryCalls int
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (ai.Analysis, error) {
	if f.classifyErr != nil {
		return ai.Analysis{}, f.classifyErr
	}
	if a, ok := f.analyses[text]; ok {
		return a, nil
	}
	return ai.Analysis{Intent: ai.IntentUncertain}, nil
}

func (f *fakeClassifier) ResolveCategory(ctx context.Context, description string, known []string) (ai.CategoryResult, error) {
	f.mu.Lock()
	f.categoryCalls++
	f.mu.Unlock()
	if f.categoryErr != nil {
		return ai.CategoryResult{}, f.categoryErr
	}
	return f.category, nil
}

func (f *fakeClassifier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categoryCalls
}

// fakeSender acumula as mensagens enviadas.
type fakeSender struct {
	mu     sync.Mutex
	texts  []string
	photos []string // legendas
}

func (s *fakeSender) SendText(userID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return nil
}

func (s *fakeSender) SendPhoto(userID int64, png []byte, caption string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = append(s.photos, caption)
	return nil
}

func (s *fakeSender) sentTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func (s *fakeSender) lastText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.texts) == 0 {
		return ""
	}
	return s.texts[len(s.texts)-1]
}

func amt(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.New(v, 0)
}
