package app

import (
	"github.com/shopspring/decimal"

	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/repository"
	"go-ledger-api/service"
)

// seedDemoData creates the demo fixture: six users, one account each, with
// balances from 1000.00 to 3500.00. The third user is the administrator.
func seedDemoData(userRepo repository.IUserRepository, accounts *service.AccountService) error {
	type fixture struct {
		username string
		role     model.Role
		account  string
		balance  string
	}
	fixtures := []fixture{
		{"user1", model.RoleUser, "Account A", "1000.00"},
		{"user2", model.RoleUser, "Account B", "1500.00"},
		{"admin", model.RoleAdmin, "Account C", "2000.00"},
		{"user4", model.RoleUser, "Account D", "2500.00"},
		{"user5", model.RoleUser, "Account E", "3000.00"},
		{"user6", model.RoleUser, "Account F", "3500.00"},
	}

	password, err := service.HashPassword("password123")
	if err != nil {
		return err
	}

	for _, f := range fixtures {
		user := &model.User{
			Username: f.username,
			Email:    f.username + "@example.com",
			Password: password,
			Role:     string(f.role),
		}
		if err := userRepo.CreateUser(user); err != nil {
			return err
		}
		balance, err := decimal.NewFromString(f.balance)
		if err != nil {
			return err
		}
		if _, err := accounts.CreateNewAccount(user.ID, f.account, balance); err != nil {
			return err
		}
	}

	logger.Log.WithField("users", len(fixtures)).Info("Demo data seeded")
	return nil
}
