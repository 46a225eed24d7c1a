package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/repository"
)

var (
	ErrSenderAccountNotFound   = errors.New("sender account not found")
	ErrReceiverAccountNotFound = errors.New("receiver account not found")
	ErrSameAccountTransfer     = errors.New("cannot transfer money to the same account")
	ErrPermissionDenied        = errors.New("you do not have permission to operate on this account")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
)

// LedgerService orchestrates the compound balance operations. Every mutation
// routes through the account repository's adjustment primitives; the service
// adds amount validation, ownership checks and the transfer log record.
type LedgerService struct {
	accountRepo     repository.IAccountRepository
	transactionRepo repository.ITransactionRepository
}

func NewLedgerService(accountRepo repository.IAccountRepository, transactionRepo repository.ITransactionRepository) *LedgerService {
	return &LedgerService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// TransferRequest defines the payload for a money transfer.
type TransferRequest struct {
	FromAccountID int64           `json:"from_account_id" validate:"required"`
	ToAccountID   int64           `json:"to_account_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// Deposit credits the account with a strictly positive amount.
func (s *LedgerService) Deposit(accountID int64, amount decimal.Decimal) (*model.Account, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return s.accountRepo.AdjustBalance(accountID, amount)
}

// Withdraw debits the account with a strictly positive amount. The repository
// refuses an adjustment that would leave the balance negative.
func (s *LedgerService) Withdraw(accountID int64, amount decimal.Decimal) (*model.Account, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return s.accountRepo.AdjustBalance(accountID, amount.Neg())
}

// TransferMoney moves amount from one account to another as a single atomic
// unit: either the debit, the credit and exactly one log record all become
// visible together, or nothing changes. The user must own the source account
// unless they hold the admin role.
func (s *LedgerService) TransferMoney(ctx context.Context, userID int64, role string, req TransferRequest) (*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"from_account_id": req.FromAccountID,
		"to_account_id":   req.ToAccountID,
		"amount":          req.Amount.String(),
		"user_id":         userID,
	})
	log.Info("Starting money transfer process")

	if req.FromAccountID == req.ToAccountID {
		return nil, ErrSameAccountTransfer
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tx, err := s.accountRepo.BeginTx(req.FromAccountID, req.ToAccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			if _, lookupErr := s.accountRepo.GetAccountByID(req.FromAccountID); lookupErr != nil {
				return nil, ErrSenderAccountNotFound
			}
			return nil, ErrReceiverAccountNotFound
		}
		return nil, err
	}
	defer tx.Rollback()

	fromAccount, err := tx.Account(req.FromAccountID)
	if err != nil {
		return nil, err
	}
	if role != string(model.RoleAdmin) && fromAccount.UserID != userID {
		return nil, ErrPermissionDenied
	}

	// Debit first: the source balance is verified before the destination is
	// touched, so a failed transfer leaves both accounts unchanged.
	if err := tx.AdjustBalance(req.FromAccountID, req.Amount.Neg()); err != nil {
		return nil, err
	}
	if err := tx.AdjustBalance(req.ToAccountID, req.Amount); err != nil {
		return nil, err
	}

	transaction := &model.Transaction{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		CreatedAt:     time.Now(),
	}

	// The record is appended while both account locks are still held, so a
	// concurrent reader can never see the balances changed without the
	// transaction, or the other way round.
	if err := s.transactionRepo.CreateTransaction(transaction); err != nil {
		return nil, err
	}

	tx.Commit()

	log.WithField("transaction_id", transaction.ID).Info("Transaction completed successfully")
	return transaction, nil
}

// ListTransactionsForAccount retrieves the transaction history for a specific
// account. The caller must own the account or hold the admin role.
func (s *LedgerService) ListTransactionsForAccount(ctx context.Context, userID int64, role string, accountID int64) ([]*model.Transaction, error) {
	account, err := s.accountRepo.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if role != string(model.RoleAdmin) && account.UserID != userID {
		logger.Log.WithFields(logrus.Fields{
			"requesting_user_id": userID,
			"target_account_id":  accountID,
		}).Warn("Permission denied for accessing account's transaction history")
		return nil, ErrPermissionDenied
	}
	return s.transactionRepo.GetTransactionsByAccountID(accountID)
}

// GetTransaction retrieves a single transaction. The caller must own one of
// the two accounts involved or hold the admin role.
func (s *LedgerService) GetTransaction(ctx context.Context, userID int64, role string, transactionID int64) (*model.Transaction, error) {
	transaction, err := s.transactionRepo.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}
	if role == string(model.RoleAdmin) {
		return transaction, nil
	}
	for _, accountID := range []int64{transaction.FromAccountID, transaction.ToAccountID} {
		if account, err := s.accountRepo.GetAccountByID(accountID); err == nil && account.UserID == userID {
			return transaction, nil
		}
	}
	return nil, ErrPermissionDenied
}

// DeleteTransaction removes a record from the log. Admin only; the router
// enforces the role. Balances are not re-derived from the log, so this has
// no effect on account state.
func (s *LedgerService) DeleteTransaction(ctx context.Context, transactionID int64) error {
	return s.transactionRepo.DeleteTransaction(transactionID)
}
