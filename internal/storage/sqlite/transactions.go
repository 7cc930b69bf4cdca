package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

const transactionColumns = `id, user_id, type, category, amount, note, date, created_at, updated_at`

// CreateTransaction persists a new personal transaction.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	// Generate ID if not set
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if t.CreatedAt == 0 {
		t.CreatedAt = now
	}
	if t.Date == 0 {
		t.Date = now
	}
	t.UpdatedAt = t.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, string(t.Type), t.Category, t.Amount.String(), nullable(t.Note),
		t.Date, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	t, err := scanTransaction(s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`,
		transactionID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("transaction", transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// ListTransactionsByUser retrieves a user's transactions, newest first.
func (s *SQLiteStore) ListTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ?
		 ORDER BY date DESC, created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// UpdateTransaction overwrites type, category, amount, note and date.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	t.UpdatedAt = time.Now().Unix()
	if t.Date == 0 {
		t.Date = t.UpdatedAt
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET type = ?, category = ?, amount = ?, note = ?, date = ?, updated_at = ?
		 WHERE id = ?`,
		string(t.Type), t.Category, t.Amount.String(), nullable(t.Note), t.Date, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return notFound("transaction", t.ID)
	}
	return nil
}

// DeleteTransaction removes a transaction by ID.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return notFound("transaction", transactionID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var txType string
	var note sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &txType, &t.Category, &t.Amount, &note,
		&t.Date, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(txType)
	if note.Valid {
		t.Note = note.String
	}
	return t, nil
}
