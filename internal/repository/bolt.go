package repository

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"sort"
	"time"

	"github.com/boltdb/bolt"
	"github.com/shopspring/decimal"

	"financas-bot/internal/model"
)

var (
	bucketUsers        = []byte("users")
	bucketTransactions = []byte("transactions")
	bucketLogs         = []byte("logs")
)

// BoltRepository guarda o razão num arquivo BoltDB local, para
// execução em máquina única e desenvolvimento. Cada db.Update é uma
// transação atômica, então lançamento e saldo andam sempre juntos.
type BoltRepository struct {
	db *bolt.DB
}

func NewBoltRepository(path string) (*BoltRepository, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketTransactions, bucketLogs} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BoltRepository{db: db}, nil
}

func (r *BoltRepository) Close() error {
	return r.db.Close()
}

func userKey(userID int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(userID))
	return key
}

// txnKey ordena por usuário e data, permitindo varrer o extrato de um
// usuário por prefixo.
func txnKey(t *model.Transaction) []byte {
	key := make([]byte, 0, 8+8+len(t.ID))
	key = append(key, userKey(t.UserID)...)
	var nano [8]byte
	binary.BigEndian.PutUint64(nano[:], uint64(t.Date.UnixNano()))
	key = append(key, nano[:]...)
	return append(key, t.ID...)
}

func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return buf.Bytes(), nil
}

func getUserIn(b *bolt.Bucket, userID int64) (*model.User, error) {
	raw := b.Get(userKey(userID))
	if raw == nil {
		return nil, nil
	}
	var user model.User
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %d: %w", userID, err)
	}
	return &user, nil
}

func putUserIn(b *bolt.Bucket, user *model.User) error {
	raw, err := encode(user)
	if err != nil {
		return err
	}
	return b.Put(userKey(user.ID), raw)
}

func (r *BoltRepository) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var user *model.User
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		found, err := getUserIn(b, userID)
		if err != nil {
			return err
		}
		if found != nil {
			user = found
			return nil
		}
		// Primeiro contato: cria o usuário no estado inicial.
		user = model.NewUser(userID)
		return putUserIn(b, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *BoltRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketUsers).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var user model.User
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&user); err != nil {
				return fmt.Errorf("failed to decode user: %w", err)
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// mutateUser aplica mudanças ao usuário numa única transação,
// criando-o antes se necessário.
func (r *BoltRepository) mutateUser(userID int64, mutate func(*model.User)) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		user, err := getUserIn(b, userID)
		if err != nil {
			return err
		}
		if user == nil {
			user = model.NewUser(userID)
		}
		mutate(user)
		return putUserIn(b, user)
	})
}

func (r *BoltRepository) SetBalance(ctx context.Context, userID int64, amount decimal.Decimal) error {
	return r.mutateUser(userID, func(u *model.User) { u.Balance = amount })
}

func (r *BoltRepository) SetSpendingLimit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	return r.mutateUser(userID, func(u *model.User) { u.SpendingLimit = &amount })
}

func (r *BoltRepository) SetReminderMode(ctx context.Context, userID int64, enabled bool) error {
	return r.mutateUser(userID, func(u *model.User) { u.ReminderMode = enabled })
}

func (r *BoltRepository) AddCategory(ctx context.Context, userID int64, name string) error {
	return r.mutateUser(userID, func(u *model.User) {
		if !u.HasCategory(name) {
			u.Categories = append(u.Categories, name)
		}
	})
}

func (r *BoltRepository) AddTransaction(ctx context.Context, transaction *model.Transaction) error {
	transaction.GenerateID()

	return r.db.Update(func(tx *bolt.Tx) error {
		raw, err := encode(transaction)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketTransactions).Put(txnKey(transaction), raw); err != nil {
			return fmt.Errorf("failed to store transaction: %w", err)
		}

		users := tx.Bucket(bucketUsers)
		user, err := getUserIn(users, transaction.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			user = model.NewUser(transaction.UserID)
		}
		user.Balance = user.Balance.Add(transaction.Signed())
		return putUserIn(users, user)
	})
}

func (r *BoltRepository) GetTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction
	prefix := userKey(userID)

	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketTransactions).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var t model.Transaction
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&t); err != nil {
				return fmt.Errorf("failed to decode transaction: %w", err)
			}
			if filter.Matches(&t) {
				transactions = append(transactions, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Da mais recente para a mais antiga.
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	if filter.Limit > 0 && len(transactions) > filter.Limit {
		transactions = transactions[:filter.Limit]
	}
	return transactions, nil
}

func (r *BoltRepository) DeleteAllTransactions(ctx context.Context, userID int64) error {
	prefix := userKey(userID)

	return r.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketTransactions).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}
		}

		users := tx.Bucket(bucketUsers)
		user, err := getUserIn(users, userID)
		if err != nil || user == nil {
			return err
		}
		user.Balance = decimal.Zero
		return putUserIn(users, user)
	})
}

func (r *BoltRepository) AppendLog(ctx context.Context, entry *model.LogEntry) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		raw, err := encode(entry)
		if err != nil {
			return err
		}
		key := make([]byte, 0, 16)
		key = append(key, userKey(entry.UserID)...)
		var nano [8]byte
		binary.BigEndian.PutUint64(nano[:], uint64(entry.Timestamp.UnixNano()))
		key = append(key, nano[:]...)
		return tx.Bucket(bucketLogs).Put(key, raw)
	})
}

var _ Repository = (*BoltRepository)(nil)
var _ Repository = (*SupabaseRepository)(nil)
