package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"go-ledger-api/common"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/repository"
	"go-ledger-api/service"
)

type UserHandler struct {
	userRepo    repository.IUserRepository
	userService *service.UserService
	access      *service.AccessService
}

func NewUserHandler(userRepo repository.IUserRepository, userService *service.UserService, access *service.AccessService) *UserHandler {
	return &UserHandler{userRepo: userRepo, userService: userService, access: access}
}

// Register creates a new user with the default role.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.userService.Register(req)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return common.NewAppError(http.StatusConflict, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Error creating user", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// Login verifies the credentials and issues a JWT.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.userRepo.GetUserByEmail(req.Email)
	if err != nil || !service.CheckPasswordHash(req.Password, user.Password) {
		return common.NewAppError(http.StatusUnauthorized, "Invalid email or password", err)
	}

	token, err := service.GenerateJWT(user)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not generate token", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"token": token})
	return nil
}

// UpdateUserRole changes a user's role. The route is admin-gated.
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user ID in URL path", err)
	}

	var req model.UpdateUserRoleRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.userService.UpdateUserRole(userID, req.Role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusBadRequest, err.Error(), err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// TotalBalance returns the sum of the caller's account balances.
func (h *UserHandler) TotalBalance(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, _, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}

	total, err := h.userService.TotalBalance(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not compute total balance", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]decimal.Decimal{"total_balance": total})
	return nil
}

// OwnedAccounts returns the ids of the accounts the caller owns.
func (h *UserHandler) OwnedAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, _, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}

	ids, err := h.access.OwnedAccounts(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not list owned accounts", err)
	}
	if ids == nil {
		ids = []int64{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string][]int64{"account_ids": ids})
	return nil
}
