// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore

	// CreateGroup persists a new group with its members and expense types.
	// ID, InviteCode and timestamps are populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with members in join order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByInviteCode retrieves the group owning an invite code.
	GetGroupByInviteCode(ctx context.Context, inviteCode string) (*models.Group, error)

	// ListGroupsForMember returns the groups a member belongs to, newest first.
	ListGroupsForMember(ctx context.Context, memberID string) ([]*models.Group, error)

	// AddGroupMember appends a member to the group.
	AddGroupMember(ctx context.Context, groupID string, member models.Member) error

	// RemoveGroupMember deletes a member. Their expenses are kept.
	RemoveGroupMember(ctx context.Context, groupID, memberID string) error

	// UpdateGroupCurrency sets the group's display currency.
	UpdateGroupCurrency(ctx context.Context, groupID, currency string) error

	// AddExpenseType appends an allowed expense type.
	AddExpenseType(ctx context.Context, groupID, expenseType string) error

	// CreateExpense persists a new expense. ID and timestamps are populated when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByGroup returns a group's expenses, newest first by date then creation.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// CreateTransaction persists a personal transaction.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// GetTransaction retrieves a transaction by ID.
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)

	// ListTransactionsByUser returns a user's transactions, newest first.
	ListTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error)

	// UpdateTransaction overwrites the mutable fields of a transaction.
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// DeleteTransaction removes a transaction.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore covers account persistence. Lookups return (nil, nil) when the user does not exist.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
