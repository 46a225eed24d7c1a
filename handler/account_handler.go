package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"go-ledger-api/common"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/repository"
	"go-ledger-api/service"
)

type AccountHandler struct {
	service *service.AccountService
	access  *service.AccessService
}

func NewAccountHandler(service *service.AccountService, access *service.AccessService) *AccountHandler {
	return &AccountHandler{service: service, access: access}
}

func accountIDFromPath(r *http.Request) (int64, *common.AppError) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid account ID in URL path", err)
	}
	return id, nil
}

// authorize runs the ownership/role check and converts the outcome into an
// HTTP error when the caller may not touch the account.
func (h *AccountHandler) authorize(userID int64, role string, accountID int64) *common.AppError {
	allowed, err := h.access.CanOperate(userID, role, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not check account access", err)
	}
	if !allowed {
		return common.NewAppError(http.StatusForbidden, "You do not have access to this account", nil)
	}
	return nil
}

// CreateAccount handles the request to open a new account for the caller.
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateAccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	userID, _, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"name":    req.Name,
	}).Info("Create account request received")

	account, err := h.service.CreateNewAccount(userID, req.Name, req.InitialBalance)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		case errors.Is(err, repository.ErrUserNotFound):
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create account", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
	return nil
}

// ListAccounts lists the caller's accounts; admins get every account.
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, role, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}

	var (
		accounts []*model.Account
		err      error
	)
	if role == string(model.RoleAdmin) {
		accounts, err = h.service.GetAllAccounts()
	} else {
		accounts, err = h.service.ListAccountsForUser(userID)
	}
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve accounts", err)
	}
	if accounts == nil {
		accounts = []*model.Account{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(accounts)
	return nil
}

// GetAccount returns a single account the caller may operate on.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		return appErr
	}
	userID, role, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}
	if appErr := h.authorize(userID, role, accountID); appErr != nil {
		return appErr
	}

	account, err := h.service.GetAccount(accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve account", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(account)
	return nil
}

// UpdateAccount renames an account. The payload carries no balance field;
// balances change only through deposits, withdrawals and transfers.
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		return appErr
	}
	var req model.UpdateAccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}
	userID, role, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}
	if appErr := h.authorize(userID, role, accountID); appErr != nil {
		return appErr
	}

	account, err := h.service.RenameAccount(accountID, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update account", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(account)
	return nil
}

// DeleteAccount removes an account the caller may operate on.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		return appErr
	}
	userID, role, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}
	if appErr := h.authorize(userID, role, accountID); appErr != nil {
		return appErr
	}

	if err := h.service.DeleteAccount(accountID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not delete account", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
