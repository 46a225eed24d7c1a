package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ledger-api/model"
	"go-ledger-api/repository"
)

func TestAccessService_CanOperate(t *testing.T) {
	accountRepo := repository.NewAccountRepository()
	userRepo := repository.NewUserRepository()
	access := NewAccessService(accountRepo, userRepo)

	account := &model.Account{UserID: 1, Name: "Account A", Balance: decimal.Zero}
	require.NoError(t, accountRepo.CreateAccount(account))

	allowed, err := access.CanOperate(1, string(model.RoleUser), account.ID)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = access.CanOperate(2, string(model.RoleUser), account.ID)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = access.CanOperate(2, string(model.RoleAdmin), account.ID)
	require.NoError(t, err)
	assert.True(t, allowed)

	_, err = access.CanOperate(1, string(model.RoleUser), 99)
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	_, err = access.CanOperate(1, string(model.RoleAdmin), 99)
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccessService_OwnedAccounts(t *testing.T) {
	accountRepo := repository.NewAccountRepository()
	userRepo := repository.NewUserRepository()
	access := NewAccessService(accountRepo, userRepo)

	user := &model.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, userRepo.CreateUser(user))
	require.NoError(t, userRepo.AddAccountToUser(user.ID, 5))
	require.NoError(t, userRepo.AddAccountToUser(user.ID, 8))

	ids, err := access.OwnedAccounts(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 8}, ids)

	_, err = access.OwnedAccounts(99)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
