package router

import (
	"net/http"

	"go-ledger-api/handler"
)

// NewRouter assembles the full HTTP surface. Everything under /api/ requires
// a valid token; admin-only routes are additionally gated by role.
func NewRouter(userHandler *handler.UserHandler, accountHandler *handler.AccountHandler, transactionHandler *handler.TransactionHandler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("POST /login", handler.ErrorHandlingMiddleware(userHandler.Login))
	mux.HandleFunc("GET /health", handler.HealthCheck)

	api := http.NewServeMux()

	api.Handle("POST /api/accounts", handler.ErrorHandlingMiddleware(accountHandler.CreateAccount))
	api.Handle("GET /api/accounts", handler.ErrorHandlingMiddleware(accountHandler.ListAccounts))
	api.Handle("GET /api/accounts/{id}", handler.ErrorHandlingMiddleware(accountHandler.GetAccount))
	api.Handle("PUT /api/accounts/{id}", handler.ErrorHandlingMiddleware(accountHandler.UpdateAccount))
	api.Handle("DELETE /api/accounts/{id}", handler.ErrorHandlingMiddleware(accountHandler.DeleteAccount))

	api.Handle("POST /api/accounts/{id}/deposit", handler.ErrorHandlingMiddleware(transactionHandler.Deposit))
	api.Handle("POST /api/accounts/{id}/withdraw", handler.ErrorHandlingMiddleware(transactionHandler.Withdraw))
	api.Handle("GET /api/accounts/{id}/transactions", handler.ErrorHandlingMiddleware(transactionHandler.ListTransactionsForAccount))

	api.Handle("POST /api/transfers", handler.ErrorHandlingMiddleware(transactionHandler.CreateTransfer))
	api.Handle("GET /api/transactions/{id}", handler.ErrorHandlingMiddleware(transactionHandler.GetTransaction))
	api.Handle("DELETE /api/transactions/{id}", handler.AdminMiddleware(handler.ErrorHandlingMiddleware(transactionHandler.DeleteTransaction)))

	api.Handle("GET /api/users/me/accounts", handler.ErrorHandlingMiddleware(userHandler.OwnedAccounts))
	api.Handle("GET /api/users/me/balance", handler.ErrorHandlingMiddleware(userHandler.TotalBalance))
	api.Handle("PUT /api/users/{id}/role", handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.UpdateUserRole)))

	mux.Handle("/api/", handler.AuthMiddleware(api))

	return mux
}
