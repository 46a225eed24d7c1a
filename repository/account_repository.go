package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"go-ledger-api/logger"
	"go-ledger-api/model"
)

// IAccountRepository defines the contract for the account store. All balance
// changes go through AdjustBalance or an AccountTx; there is no other write
// path.
type IAccountRepository interface {
	CreateAccount(account *model.Account) error
	GetAccountByID(id int64) (*model.Account, error)
	GetAccountsByUserID(userID int64) ([]*model.Account, error)
	GetAllAccounts() ([]*model.Account, error)
	AdjustBalance(id int64, delta decimal.Decimal) (*model.Account, error)
	UpdateAccount(account *model.Account) error
	DeleteAccount(id int64) error
	BeginTx(ids ...int64) (*AccountTx, error)
}

// lockedAccount pairs an account record with the mutex that serializes every
// mutation and read of that record. The deleted flag lets a writer that
// already fetched the pointer detect a concurrent delete.
type lockedAccount struct {
	mu      sync.Mutex
	acc     model.Account
	deleted bool
}

// AccountRepository is the authoritative in-memory account store.
// The store-level RWMutex guards only map membership and insertion order;
// record contents are guarded by the per-account mutex. The store mutex is
// never held while waiting for an account mutex, so the two levels cannot
// deadlock.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*lockedAccount
	order    []int64
	nextID   int64
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[int64]*lockedAccount)}
}

// CreateAccount assigns a fresh id and stores the account. Ids are
// monotonically increasing and never reused, even after deletes.
func (r *AccountRepository) CreateAccount(account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	account.ID = r.nextID
	account.CreatedAt = time.Now()

	r.accounts[account.ID] = &lockedAccount{acc: *account}
	r.order = append(r.order, account.ID)

	logger.Log.WithFields(logrus.Fields{
		"account_id": account.ID,
		"user_id":    account.UserID,
	}).Info("Account created")
	return nil
}

// acquire locks the account with the given id and returns it. The store lock
// is released before the account lock is taken; the deleted flag covers the
// window in between.
func (r *AccountRepository) acquire(id int64) (*lockedAccount, error) {
	r.mu.RLock()
	la, ok := r.accounts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrAccountNotFound
	}
	la.mu.Lock()
	if la.deleted {
		la.mu.Unlock()
		return nil, ErrAccountNotFound
	}
	return la, nil
}

// GetAccountByID returns a snapshot copy of the account. Callers never see
// the stored record itself, so they cannot mutate it out of band.
func (r *AccountRepository) GetAccountByID(id int64) (*model.Account, error) {
	la, err := r.acquire(id)
	if err != nil {
		return nil, err
	}
	defer la.mu.Unlock()
	cp := la.acc
	return &cp, nil
}

// GetAllAccounts returns snapshot copies of all accounts in insertion order.
func (r *AccountRepository) GetAllAccounts() ([]*model.Account, error) {
	r.mu.RLock()
	ids := make([]int64, len(r.order))
	copy(ids, r.order)
	r.mu.RUnlock()

	accounts := make([]*model.Account, 0, len(ids))
	for _, id := range ids {
		acc, err := r.GetAccountByID(id)
		if err != nil {
			// Deleted between the membership snapshot and the read.
			continue
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// GetAccountsByUserID returns the accounts owned by the given user, in
// insertion order.
func (r *AccountRepository) GetAccountsByUserID(userID int64) ([]*model.Account, error) {
	all, err := r.GetAllAccounts()
	if err != nil {
		return nil, err
	}
	var accounts []*model.Account
	for _, acc := range all {
		if acc.UserID == userID {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

// AdjustBalance atomically applies balance += delta to a single account.
// It fails with ErrInsufficientFunds when the result would be negative and
// leaves the balance untouched in that case.
func (r *AccountRepository) AdjustBalance(id int64, delta decimal.Decimal) (*model.Account, error) {
	la, err := r.acquire(id)
	if err != nil {
		return nil, err
	}
	defer la.mu.Unlock()

	newBalance := la.acc.Balance.Add(delta)
	if newBalance.IsNegative() {
		return nil, ErrInsufficientFunds
	}
	la.acc.Balance = newBalance

	logger.Log.WithFields(logrus.Fields{
		"account_id":  id,
		"delta":       delta.String(),
		"new_balance": newBalance.String(),
	}).Info("Account balance adjusted")

	cp := la.acc
	return &cp, nil
}

// UpdateAccount edits the non-balance fields of the stored record matching
// account.ID. The stored balance always wins: replacing the whole record
// could silently revert a concurrent deposit or transfer.
func (r *AccountRepository) UpdateAccount(account *model.Account) error {
	la, err := r.acquire(account.ID)
	if err != nil {
		return err
	}
	defer la.mu.Unlock()

	la.acc.Name = account.Name
	la.acc.UserID = account.UserID

	logger.Log.WithField("account_id", account.ID).Info("Account updated")
	return nil
}

// DeleteAccount removes the account. It takes the account lock first, so a
// delete never interleaves with an in-flight balance adjustment on the same
// account.
func (r *AccountRepository) DeleteAccount(id int64) error {
	la, err := r.acquire(id)
	if err != nil {
		return err
	}
	defer la.mu.Unlock()

	la.deleted = true

	r.mu.Lock()
	delete(r.accounts, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	logger.Log.WithField("account_id", id).Info("Account deleted")
	return nil
}

// txEntry is one account held by an AccountTx, with the balance it had when
// the transaction began, for rollback.
type txEntry struct {
	la   *lockedAccount
	prev decimal.Decimal
}

// AccountTx holds exclusive locks on a fixed set of accounts for the duration
// of a compound operation. Locks are acquired in ascending account id order,
// so two transactions over the same pair of accounts can never deadlock.
//
// Usage mirrors database/sql: begin, adjust, commit, with a deferred
// Rollback that undoes everything if Commit was never reached.
type AccountTx struct {
	entries []txEntry
	done    bool
}

// BeginTx locks the given accounts and returns a transaction over them.
// If any account is missing, every lock already taken is released and
// ErrAccountNotFound is returned; nothing is modified.
func (r *AccountRepository) BeginTx(ids ...int64) (*AccountTx, error) {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	tx := &AccountTx{}
	for i, id := range sorted {
		if i > 0 && id == sorted[i-1] {
			// Locking the same account twice would self-deadlock.
			continue
		}
		la, err := r.acquire(id)
		if err != nil {
			tx.unlock()
			tx.done = true
			return nil, err
		}
		tx.entries = append(tx.entries, txEntry{la: la, prev: la.acc.Balance})
	}
	return tx, nil
}

func (tx *AccountTx) entry(id int64) (*txEntry, bool) {
	for i := range tx.entries {
		if tx.entries[i].la.acc.ID == id {
			return &tx.entries[i], true
		}
	}
	return nil, false
}

// Account returns a snapshot copy of a locked account.
func (tx *AccountTx) Account(id int64) (*model.Account, error) {
	e, ok := tx.entry(id)
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := e.la.acc
	return &cp, nil
}

// AdjustBalance applies balance += delta to one of the locked accounts.
// The change stays invisible to every other caller until the locks are
// released, because all reads of the record go through the same mutex.
func (tx *AccountTx) AdjustBalance(id int64, delta decimal.Decimal) error {
	e, ok := tx.entry(id)
	if !ok {
		return ErrAccountNotFound
	}
	newBalance := e.la.acc.Balance.Add(delta)
	if newBalance.IsNegative() {
		return ErrInsufficientFunds
	}
	e.la.acc.Balance = newBalance
	return nil
}

// Commit publishes the adjusted balances by releasing the locks.
func (tx *AccountTx) Commit() {
	if tx.done {
		return
	}
	for i := range tx.entries {
		// A negative balance here means a write bypassed AdjustBalance;
		// that is a bug, not a recoverable condition.
		if tx.entries[i].la.acc.Balance.IsNegative() {
			panic("account balance negative at commit")
		}
	}
	tx.done = true
	tx.unlock()
}

// Rollback restores the balances captured at BeginTx and releases the locks.
// It is a no-op after Commit, so it is safe to defer unconditionally.
func (tx *AccountTx) Rollback() {
	if tx.done {
		return
	}
	for i := range tx.entries {
		tx.entries[i].la.acc.Balance = tx.entries[i].prev
	}
	tx.done = true
	tx.unlock()
}

func (tx *AccountTx) unlock() {
	for i := range tx.entries {
		tx.entries[i].la.mu.Unlock()
	}
}
