package repository

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-ledger-api/logger"
	"go-ledger-api/model"
)

// ITransactionRepository defines the contract for the append-only transfer
// log.
type ITransactionRepository interface {
	CreateTransaction(transaction *model.Transaction) error
	GetTransactionByID(id int64) (*model.Transaction, error)
	GetTransactionsByAccountID(accountID int64) ([]*model.Transaction, error)
	GetAllTransactions() ([]*model.Transaction, error)
	DeleteTransaction(id int64) error
}

// TransactionRepository is the in-memory transfer log. Per-account lookup
// goes through an id index instead of back-pointers on the account records,
// so the log stays the single authority for history.
type TransactionRepository struct {
	mu        sync.RWMutex
	byID      map[int64]model.Transaction
	order     []int64
	byAccount map[int64][]int64
	nextID    int64
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		byID:      make(map[int64]model.Transaction),
		byAccount: make(map[int64][]int64),
	}
}

// CreateTransaction assigns a fresh id and appends the record. The stored
// record is a copy; it is never modified after this call.
func (r *TransactionRepository) CreateTransaction(transaction *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	transaction.ID = r.nextID
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}

	r.byID[transaction.ID] = *transaction
	r.order = append(r.order, transaction.ID)
	r.byAccount[transaction.FromAccountID] = append(r.byAccount[transaction.FromAccountID], transaction.ID)
	if transaction.ToAccountID != transaction.FromAccountID {
		r.byAccount[transaction.ToAccountID] = append(r.byAccount[transaction.ToAccountID], transaction.ID)
	}

	logger.Log.WithFields(logrus.Fields{
		"transaction_id":  transaction.ID,
		"from_account_id": transaction.FromAccountID,
		"to_account_id":   transaction.ToAccountID,
		"amount":          transaction.Amount.String(),
	}).Info("Transaction recorded")
	return nil
}

func (r *TransactionRepository) GetTransactionByID(id int64) (*model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return &t, nil
}

// GetTransactionsByAccountID returns every transaction where the account is
// source or destination, in insertion order.
func (r *TransactionRepository) GetTransactionsByAccountID(accountID int64) ([]*model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var transactions []*model.Transaction
	for _, id := range r.byAccount[accountID] {
		t := r.byID[id]
		transactions = append(transactions, &t)
	}
	return transactions, nil
}

// GetAllTransactions returns the whole log in insertion order.
func (r *TransactionRepository) GetAllTransactions() ([]*model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transactions := make([]*model.Transaction, 0, len(r.order))
	for _, id := range r.order {
		t := r.byID[id]
		transactions = append(transactions, &t)
	}
	return transactions, nil
}

// DeleteTransaction removes a record and its index entries. Balances are
// never re-derived from the log, so removal has no effect on account state.
func (r *TransactionRepository) DeleteTransaction(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return ErrTransactionNotFound
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	r.byAccount[t.FromAccountID] = removeID(r.byAccount[t.FromAccountID], id)
	if t.ToAccountID != t.FromAccountID {
		r.byAccount[t.ToAccountID] = removeID(r.byAccount[t.ToAccountID], id)
	}

	logger.Log.WithField("transaction_id", id).Info("Transaction deleted")
	return nil
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
