package app

import (
	"net/http"

	"go-ledger-api/handler"
	"go-ledger-api/repository"
	"go-ledger-api/router"
	"go-ledger-api/service"
)

// TestApp wires the full application over fresh in-memory stores and exposes
// them so integration tests can seed state directly.
type TestApp struct {
	Router          http.Handler
	AccountRepo     *repository.AccountRepository
	TransactionRepo *repository.TransactionRepository
	UserRepo        *repository.UserRepository
	AccountService  *service.AccountService
	LedgerService   *service.LedgerService
}

// NewTestApp builds a TestApp. The cache client may be nil; listings then go
// straight to the store.
func NewTestApp(cache service.ICacheClient) *TestApp {
	accountRepo := repository.NewAccountRepository()
	transactionRepo := repository.NewTransactionRepository()
	userRepo := repository.NewUserRepository()

	accessService := service.NewAccessService(accountRepo, userRepo)
	accountService := service.NewAccountService(accountRepo, userRepo, cache)
	ledgerService := service.NewLedgerService(accountRepo, transactionRepo)
	userService := service.NewUserService(userRepo, accountRepo)

	userHandler := handler.NewUserHandler(userRepo, userService, accessService)
	accountHandler := handler.NewAccountHandler(accountService, accessService)
	transactionHandler := handler.NewTransactionHandler(ledgerService, accessService)

	return &TestApp{
		Router:          router.NewRouter(userHandler, accountHandler, transactionHandler),
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		UserRepo:        userRepo,
		AccountService:  accountService,
		LedgerService:   ledgerService,
	}
}
