// file: service/account_service.go

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"go-ledger-api/model"
	"go-ledger-api/repository"
)

// AccountService handles the account CRUD surface and keeps the user
// directory's owned-account list consistent with Account.UserID.
type AccountService struct {
	repo     repository.IAccountRepository
	userRepo repository.IUserRepository
	cache    ICacheClient
}

// NewAccountService creates a new AccountService. The cache client is
// optional; with a nil cache every listing goes straight to the store.
func NewAccountService(repo repository.IAccountRepository, userRepo repository.IUserRepository, cache ICacheClient) *AccountService {
	return &AccountService{
		repo:     repo,
		userRepo: userRepo,
		cache:    cache,
	}
}

// CreateNewAccount creates an account owned by the given user and registers
// the ownership in the user directory.
func (s *AccountService) CreateNewAccount(userID int64, name string, initialBalance decimal.Decimal) (*model.Account, error) {
	if initialBalance.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		return nil, err
	}

	account := &model.Account{
		UserID:  userID,
		Name:    name,
		Balance: initialBalance,
	}
	if err := s.repo.CreateAccount(account); err != nil {
		return nil, err
	}
	if err := s.userRepo.AddAccountToUser(userID, account.ID); err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return account, nil
}

// ListAccountsForUser lists accounts for a specific user, utilizing a
// cache-aside strategy when a cache client is configured.
func (s *AccountService) ListAccountsForUser(userID int64) ([]*model.Account, error) {
	cacheKey := fmt.Sprintf("accounts:%d", userID)
	ctx := context.Background()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var accounts []*model.Account
			if err := json.Unmarshal([]byte(cached), &accounts); err == nil {
				return accounts, nil
			}
		}
	}

	accounts, err := s.repo.GetAccountsByUserID(userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(accounts); err == nil {
			s.cache.Set(ctx, cacheKey, data, 10*time.Minute)
		}
	}
	return accounts, nil
}

// GetAllAccounts retrieves all accounts. No caching: admin data should be
// fresh.
func (s *AccountService) GetAllAccounts() ([]*model.Account, error) {
	return s.repo.GetAllAccounts()
}

// GetAccount retrieves a single account by id.
func (s *AccountService) GetAccount(accountID int64) (*model.Account, error) {
	return s.repo.GetAccountByID(accountID)
}

// RenameAccount updates the display name of an account. Balances are never
// written here; the store merges the name into the current record.
func (s *AccountService) RenameAccount(accountID int64, name string) (*model.Account, error) {
	account, err := s.repo.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	account.Name = name
	if err := s.repo.UpdateAccount(account); err != nil {
		return nil, err
	}

	s.invalidateCache(account.UserID)
	return s.repo.GetAccountByID(accountID)
}

// DeleteAccount removes an account and detaches it from its owner. Existing
// log records keep referring to the dead id; the log is history, not state.
func (s *AccountService) DeleteAccount(accountID int64) error {
	account, err := s.repo.GetAccountByID(accountID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAccount(accountID); err != nil {
		return err
	}
	if err := s.userRepo.RemoveAccountFromUser(account.UserID, accountID); err != nil && err != repository.ErrUserNotFound {
		return err
	}

	s.invalidateCache(account.UserID)
	return nil
}

func (s *AccountService) invalidateCache(userID int64) {
	if s.cache == nil {
		return
	}
	cacheKey := fmt.Sprintf("accounts:%d", userID)
	s.cache.Del(context.Background(), cacheKey)
}
