package service

import (
	"go-ledger-api/model"
	"go-ledger-api/repository"
)

// AccessService answers the single authorization question the ledger needs:
// may this caller operate on that account. It holds no state of its own.
type AccessService struct {
	accountRepo repository.IAccountRepository
	userRepo    repository.IUserRepository
}

func NewAccessService(accountRepo repository.IAccountRepository, userRepo repository.IUserRepository) *AccessService {
	return &AccessService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}
}

// CanOperate reports whether the caller may operate on the account: true for
// the owner and for callers holding the admin role. Fails with
// repository.ErrAccountNotFound when the account does not exist.
func (s *AccessService) CanOperate(userID int64, role string, accountID int64) (bool, error) {
	if role == string(model.RoleAdmin) {
		// The account must still exist; admins get no ghost accounts.
		if _, err := s.accountRepo.GetAccountByID(accountID); err != nil {
			return false, err
		}
		return true, nil
	}
	account, err := s.accountRepo.GetAccountByID(accountID)
	if err != nil {
		return false, err
	}
	return account.UserID == userID, nil
}

// OwnedAccounts returns the ids of the accounts owned by the user.
func (s *AccessService) OwnedAccounts(userID int64) ([]int64, error) {
	return s.userRepo.GetAccountIDsByUserID(userID)
}
