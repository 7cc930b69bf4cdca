package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.TransactionServiceHandler = (*TransactionService)(nil)

// TransactionService implements the personal income/expense tracker.
// Every call is scoped to the caller's own transactions.
type TransactionService struct {
	store storage.Store
	now   func() time.Time
}

// NewTransactionService creates a TransactionService.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{store: store, now: time.Now}
}

// CreateTransaction records a personal transaction.
func (s *TransactionService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateTransaction request received", "user_id", userID, "type", req.Msg.Type)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	t, err := s.build(userID, req.Msg.Type, req.Msg.Category, req.Msg.Amount, req.Msg.Note, req.Msg.Date)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return nil, storeError("CreateTransaction", err, "user_id", userID)
	}

	slog.Info("Transaction created", "transaction_id", t.ID, "user_id", userID)

	return connect.NewResponse(&api.CreateTransactionResponse{Transaction: toAPITransaction(t)}), nil
}

// ListTransactions lists the caller's transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.store.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, storeError("ListTransactionsByUser", err, "user_id", userID)
	}

	out := make([]api.Transaction, len(list))
	for i, t := range list {
		out[i] = toAPITransaction(t)
	}

	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: out}), nil
}

// UpdateTransaction replaces the editable fields of one of the caller's transactions.
func (s *TransactionService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateTransaction request received", "user_id", userID, "transaction_id", req.Msg.TransactionID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	existing, err := s.owned(ctx, userID, req.Msg.TransactionID)
	if err != nil {
		return nil, err
	}

	date := req.Msg.Date
	if date == 0 {
		date = existing.Date
	}
	t, err := s.build(userID, req.Msg.Type, req.Msg.Category, req.Msg.Amount, req.Msg.Note, date)
	if err != nil {
		return nil, err
	}
	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return nil, storeError("UpdateTransaction", err, "transaction_id", t.ID)
	}

	return connect.NewResponse(&api.UpdateTransactionResponse{Transaction: toAPITransaction(t)}), nil
}

// DeleteTransaction removes one of the caller's transactions.
func (s *TransactionService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteTransaction request received", "user_id", userID, "transaction_id", req.Msg.TransactionID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, req.Msg.TransactionID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteTransaction(ctx, req.Msg.TransactionID); err != nil {
		return nil, storeError("DeleteTransaction", err, "transaction_id", req.Msg.TransactionID)
	}

	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

// owned loads a transaction and hides other users' rows behind NotFound.
func (s *TransactionService) owned(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, storeError("GetTransaction", err, "transaction_id", transactionID)
	}
	if t.UserID != userID {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("transaction %w: %s", storage.ErrNotFound, transactionID))
	}
	return t, nil
}

func (s *TransactionService) build(userID, txType, category, amount, note string, date int64) (*models.Transaction, error) {
	value, err := parseAmount(amount, false)
	if err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("category is required"))
	}
	if date == 0 {
		date = s.now().Unix()
	}
	return &models.Transaction{
		UserID:   userID,
		Type:     models.TransactionType(txType),
		Category: category,
		Amount:   value,
		Note:     strings.TrimSpace(note),
		Date:     date,
	}, nil
}
