package repository

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ledger-api/model"
)

func newAccount(t *testing.T, r *AccountRepository, userID int64, name, balance string) *model.Account {
	t.Helper()
	account := &model.Account{
		UserID:  userID,
		Name:    name,
		Balance: decimal.RequireFromString(balance),
	}
	require.NoError(t, r.CreateAccount(account))
	return account
}

func TestAccountRepository_CreateAssignsMonotonicIDs(t *testing.T) {
	repo := NewAccountRepository()

	a := newAccount(t, repo, 1, "Account A", "100.00")
	b := newAccount(t, repo, 1, "Account B", "0")

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	// Ids are never reused, even after a delete.
	require.NoError(t, repo.DeleteAccount(b.ID))
	c := newAccount(t, repo, 1, "Account C", "0")
	assert.Equal(t, int64(3), c.ID)
}

func TestAccountRepository_GetReturnsSnapshotCopy(t *testing.T) {
	repo := NewAccountRepository()
	a := newAccount(t, repo, 1, "Account A", "100.00")

	got, err := repo.GetAccountByID(a.ID)
	require.NoError(t, err)

	// Mutating the returned value must not leak into the store.
	got.Balance = decimal.RequireFromString("999999")
	got.Name = "tampered"

	fresh, err := repo.GetAccountByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Account A", fresh.Name)
	assert.True(t, fresh.Balance.Equal(decimal.RequireFromString("100.00")))
}

func TestAccountRepository_GetNotFound(t *testing.T) {
	repo := NewAccountRepository()
	_, err := repo.GetAccountByID(42)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_ListInsertionOrder(t *testing.T) {
	repo := NewAccountRepository()
	newAccount(t, repo, 1, "first", "0")
	newAccount(t, repo, 2, "second", "0")
	newAccount(t, repo, 1, "third", "0")

	all, err := repo.GetAllAccounts()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Name)
	assert.Equal(t, "second", all[1].Name)
	assert.Equal(t, "third", all[2].Name)

	mine, err := repo.GetAccountsByUserID(1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "first", mine[0].Name)
	assert.Equal(t, "third", mine[1].Name)
}

func TestAccountRepository_AdjustBalance(t *testing.T) {
	repo := NewAccountRepository()
	a := newAccount(t, repo, 1, "Account A", "1000.00")

	updated, err := repo.AdjustBalance(a.ID, decimal.RequireFromString("250.50"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(decimal.RequireFromString("1250.50")))

	updated, err = repo.AdjustBalance(a.ID, decimal.RequireFromString("-1250.50"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.IsZero())
}

func TestAccountRepository_AdjustBalanceInsufficientFunds(t *testing.T) {
	repo := NewAccountRepository()
	a := newAccount(t, repo, 1, "Account A", "1000.00")

	_, err := repo.AdjustBalance(a.ID, decimal.RequireFromString("-1500.00"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// The failed adjustment left the balance untouched.
	got, err := repo.GetAccountByID(a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("1000.00")))
}

func TestAccountRepository_UpdateMergesNonBalanceFields(t *testing.T) {
	repo := NewAccountRepository()
	a := newAccount(t, repo, 1, "old name", "500.00")

	// Simulate a stale caller record: the balance it carries is outdated.
	stale := *a
	stale.Name = "new name"
	stale.Balance = decimal.Zero

	_, err := repo.AdjustBalance(a.ID, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateAccount(&stale))

	got, err := repo.GetAccountByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "new name", got.Name)
	// The concurrently adjusted balance survived the update.
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("600.00")))
}

func TestAccountRepository_DeleteNotFound(t *testing.T) {
	repo := NewAccountRepository()
	assert.ErrorIs(t, repo.DeleteAccount(7), ErrAccountNotFound)

	a := newAccount(t, repo, 1, "Account A", "0")
	require.NoError(t, repo.DeleteAccount(a.ID))
	assert.ErrorIs(t, repo.DeleteAccount(a.ID), ErrAccountNotFound)
}

func TestAccountRepository_ConcurrentAdjustments(t *testing.T) {
	repo := NewAccountRepository()
	a := newAccount(t, repo, 1, "Account A", "0")

	const workers = 100
	one := decimal.NewFromInt(1)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := repo.AdjustBalance(a.ID, one); err != nil {
				t.Errorf("adjust: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetAccountByID(a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(workers)))
}

func TestAccountTx_CommitPublishesBothBalances(t *testing.T) {
	repo := NewAccountRepository()
	a := newAccount(t, repo, 1, "Account A", "1000.00")
	b := newAccount(t, repo, 2, "Account B", "500.00")

	tx, err := repo.BeginTx(a.ID, b.ID)
	require.NoError(t, err)
	require.NoError(t, tx.AdjustBalance(a.ID, decimal.RequireFromString("-300.00")))
	require.NoError(t, tx.AdjustBalance(b.ID, decimal.RequireFromString("300.00")))
	tx.Commit()

	gotA, _ := repo.GetAccountByID(a.ID)
	gotB, _ := repo.GetAccountByID(b.ID)
	assert.True(t, gotA.Balance.Equal(decimal.RequireFromString("700.00")))
	assert.True(t, gotB.Balance.Equal(decimal.RequireFromString("800.00")))
}

func TestAccountTx_RollbackRestoresBalances(t *testing.T) {
	repo := NewAccountRepository()
	a := newAccount(t, repo, 1, "Account A", "1000.00")
	b := newAccount(t, repo, 2, "Account B", "500.00")

	tx, err := repo.BeginTx(a.ID, b.ID)
	require.NoError(t, err)
	require.NoError(t, tx.AdjustBalance(a.ID, decimal.RequireFromString("-400.00")))
	tx.Rollback()

	gotA, _ := repo.GetAccountByID(a.ID)
	gotB, _ := repo.GetAccountByID(b.ID)
	assert.True(t, gotA.Balance.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, gotB.Balance.Equal(decimal.RequireFromString("500.00")))
}

func TestAccountTx_RollbackAfterCommitIsNoop(t *testing.T) {
	repo := NewAccountRepository()
	a := newAccount(t, repo, 1, "Account A", "100.00")

	tx, err := repo.BeginTx(a.ID)
	require.NoError(t, err)
	require.NoError(t, tx.AdjustBalance(a.ID, decimal.RequireFromString("50.00")))
	tx.Commit()
	tx.Rollback()

	got, _ := repo.GetAccountByID(a.ID)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("150.00")))
}

func TestAccountTx_MissingAccountLocksNothing(t *testing.T) {
	repo := NewAccountRepository()
	a := newAccount(t, repo, 1, "Account A", "100.00")

	_, err := repo.BeginTx(a.ID, 999)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	// The existing account must not be left locked.
	got, err := repo.GetAccountByID(a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("100.00")))
}

func TestAccountTx_InsufficientFundsChecksDebitFirst(t *testing.T) {
	repo := NewAccountRepository()
	a := newAccount(t, repo, 1, "Account A", "100.00")
	b := newAccount(t, repo, 2, "Account B", "100.00")

	tx, err := repo.BeginTx(a.ID, b.ID)
	require.NoError(t, err)
	err = tx.AdjustBalance(a.ID, decimal.RequireFromString("-150.00"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	tx.Rollback()

	gotA, _ := repo.GetAccountByID(a.ID)
	gotB, _ := repo.GetAccountByID(b.ID)
	assert.True(t, gotA.Balance.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, gotB.Balance.Equal(decimal.RequireFromString("100.00")))
}
