package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"go-ledger-api/common"
	"go-ledger-api/model"
	"go-ledger-api/repository"
	"go-ledger-api/service"
)

// TransactionHandler holds dependencies for the balance operations and the
// transfer history surface.
type TransactionHandler struct {
	ledger *service.LedgerService
	access *service.AccessService
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(ledger *service.LedgerService, access *service.AccessService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, access: access}
}

// ledgerErrorToApp maps ledger business errors to HTTP status codes.
func ledgerErrorToApp(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrSenderAccountNotFound),
		errors.Is(err, service.ErrReceiverAccountNotFound),
		errors.Is(err, repository.ErrAccountNotFound),
		errors.Is(err, repository.ErrTransactionNotFound):
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, service.ErrPermissionDenied):
		return common.NewAppError(http.StatusForbidden, err.Error(), err)
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSameAccountTransfer):
		return common.NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, repository.ErrInsufficientFunds):
		return common.NewAppError(http.StatusConflict, err.Error(), err)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Could not process operation", err)
	}
}

// Deposit credits the account in the URL with the amount in the body.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.balanceOperation(w, r, h.ledger.Deposit)
}

// Withdraw debits the account in the URL with the amount in the body.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.balanceOperation(w, r, h.ledger.Withdraw)
}

func (h *TransactionHandler) balanceOperation(w http.ResponseWriter, r *http.Request, op func(int64, decimal.Decimal) (*model.Account, error)) *common.AppError {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		return appErr
	}
	var req model.AmountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}
	userID, role, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}

	allowed, err := h.access.CanOperate(userID, role, accountID)
	if err != nil {
		return ledgerErrorToApp(err)
	}
	if !allowed {
		return common.NewAppError(http.StatusForbidden, "You do not have access to this account", nil)
	}

	account, err := op(accountID, req.Amount)
	if err != nil {
		return ledgerErrorToApp(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(account)
	return nil
}

// CreateTransfer handles the transfer of a specified amount from one account
// to another. The caller must own the source account.
func (h *TransactionHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req service.TransferRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	userID, role, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}

	transaction, err := h.ledger.TransferMoney(r.Context(), userID, role, req)
	if err != nil {
		return ledgerErrorToApp(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// ListTransactionsForAccount retrieves the transaction history for a specific
// account owned by the authenticated user.
func (h *TransactionHandler) ListTransactionsForAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, role, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	transactions, err := h.ledger.ListTransactionsForAccount(r.Context(), userID, role, accountID)
	if err != nil {
		return ledgerErrorToApp(err)
	}
	if transactions == nil {
		transactions = []*model.Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transactions)
	return nil
}

// GetTransaction retrieves a single transaction by id.
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, role, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}
	transactionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid transaction ID in URL path", err)
	}

	transaction, svcErr := h.ledger.GetTransaction(r.Context(), userID, role, transactionID)
	if svcErr != nil {
		return ledgerErrorToApp(svcErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// DeleteTransaction removes a log record. The route is admin-gated.
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	transactionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid transaction ID in URL path", err)
	}

	if svcErr := h.ledger.DeleteTransaction(r.Context(), transactionID); svcErr != nil {
		return ledgerErrorToApp(svcErr)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
