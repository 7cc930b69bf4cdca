package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateExpense persists a new expense and its involved members.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.Date == 0 {
		expense.Date = now
	}
	expense.UpdatedAt = expense.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, type, paid_by, paid_by_user_id, date, note, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount.String(), expense.Type,
		expense.PaidBy, expense.PaidByUserID, expense.Date, nullable(expense.Note),
		expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, inv := range expense.Involved {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_involved (expense_id, position, user_id, name) VALUES (?, ?, ?, ?)",
			expense.ID, i, inv.UserID, inv.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert involved member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListExpensesByGroup retrieves all expenses for a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	if err := s.groupExists(ctx, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, amount, type, paid_by, paid_by_user_id, date, note, created_at, updated_at
		 FROM expenses WHERE group_id = ?
		 ORDER BY date DESC, created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense := &models.Expense{}
		var note sql.NullString

		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
			&expense.Type, &expense.PaidBy, &expense.PaidByUserID, &expense.Date, &note,
			&expense.CreatedAt, &expense.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if note.Valid {
			expense.Note = note.String
		}

		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Attach involved members in one pass
	invRows, err := s.db.QueryContext(ctx,
		`SELECT i.expense_id, i.user_id, i.name
		 FROM expense_involved i JOIN expenses e ON e.id = i.expense_id
		 WHERE e.group_id = ?
		 ORDER BY i.expense_id, i.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get involved members: %w", err)
	}
	defer invRows.Close()

	for invRows.Next() {
		var expenseID string
		var inv models.InvolvedMember
		if err := invRows.Scan(&expenseID, &inv.UserID, &inv.Name); err != nil {
			return nil, fmt.Errorf("failed to scan involved member: %w", err)
		}
		if expense, ok := byID[expenseID]; ok {
			expense.Involved = append(expense.Involved, inv)
		}
	}
	if err := invRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate involved members: %w", err)
	}

	return expenses, nil
}
