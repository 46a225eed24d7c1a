package service

import (
	"errors"

	"github.com/shopspring/decimal"

	"go-ledger-api/model"
	"go-ledger-api/repository"
)

// UserService handles user-related business logic.
type UserService struct {
	userRepo    repository.IUserRepository
	accountRepo repository.IAccountRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository, accountRepo repository.IAccountRepository) *UserService {
	return &UserService{userRepo: userRepo, accountRepo: accountRepo}
}

// Register hashes the password and stores the new user with the default role.
func (s *UserService) Register(req model.RegisterRequest) (*model.User, error) {
	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     string(model.RoleUser),
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserRole validates the role and calls the repository to update it.
func (s *UserService) UpdateUserRole(userID int64, newRole model.Role) error {
	// We ensure that only valid roles can be assigned.
	if newRole != model.RoleAdmin && newRole != model.RoleUser {
		return errors.New("invalid role specified")
	}
	return s.userRepo.UpdateUserRole(userID, string(newRole))
}

// TotalBalance returns the sum of the balances of every account the user
// owns.
func (s *UserService) TotalBalance(userID int64) (decimal.Decimal, error) {
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		return decimal.Zero, err
	}
	accounts, err := s.accountRepo.GetAccountsByUserID(userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, account := range accounts {
		total = total.Add(account.Balance)
	}
	return total, nil
}
