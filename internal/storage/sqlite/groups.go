package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// CreateGroup persists a new group with its members and expense types.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate fields if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.InviteCode == "" {
		code, err := newInviteCode()
		if err != nil {
			return err
		}
		group.InviteCode = code
	}
	if group.Currency == "" {
		group.Currency = calculator.DefaultCurrency
	}
	if len(group.ExpenseTypes) == 0 {
		group.ExpenseTypes = append([]string(nil), models.DefaultExpenseTypes...)
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	group.UpdatedAt = group.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, invite_code, created_by_id, created_by_name, currency, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.InviteCode, group.CreatedByID, group.CreatedByName,
		group.Currency, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, m := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, member_id, name, role, position) VALUES (?, ?, ?, ?, ?)",
			group.ID, m.ID, m.Name, string(m.Role), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	for i, t := range group.ExpenseTypes {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_expense_types (group_id, name, position) VALUES (?, ?, ?)",
			group.ID, t, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense type: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including members and expense types.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroupWhere(ctx, "id = ?", groupID)
}

// GetGroupByInviteCode retrieves a group by its invite code.
func (s *SQLiteStore) GetGroupByInviteCode(ctx context.Context, inviteCode string) (*models.Group, error) {
	return s.getGroupWhere(ctx, "invite_code = ?", strings.TrimSpace(inviteCode))
}

func (s *SQLiteStore) getGroupWhere(ctx context.Context, where string, arg string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, invite_code, created_by_id, created_by_name, currency, created_at, updated_at
		 FROM groups WHERE `+where,
		arg,
	).Scan(&group.ID, &group.Name, &group.InviteCode, &group.CreatedByID, &group.CreatedByName,
		&group.Currency, &group.CreatedAt, &group.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("group", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	// Get members
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, name, role FROM group_members WHERE group_id = ? ORDER BY position",
		group.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Member
		var role string
		if err := rows.Scan(&m.ID, &m.Name, &role); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		m.Role = models.Role(role)
		group.Members = append(group.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	// Get expense types
	typeRows, err := s.db.QueryContext(ctx,
		"SELECT name FROM group_expense_types WHERE group_id = ? ORDER BY position",
		group.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense types: %w", err)
	}
	defer typeRows.Close()

	for typeRows.Next() {
		var name string
		if err := typeRows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan expense type: %w", err)
		}
		group.ExpenseTypes = append(group.ExpenseTypes, name)
	}
	if err := typeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense types: %w", err)
	}

	return group, nil
}

// ListGroupsForMember retrieves every group the member belongs to, newest first.
func (s *SQLiteStore) ListGroupsForMember(ctx context.Context, memberID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.member_id = ?
		 ORDER BY g.created_at DESC, g.id`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		group, err := s.GetGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// AddGroupMember appends a member after the existing ones.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID string, member models.Member) error {
	if err := s.groupExists(ctx, groupID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, member_id, name, role, position)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM group_members WHERE group_id = ?))`,
		groupID, member.ID, member.Name, string(member.Role), groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return s.touchGroup(ctx, groupID)
}

// RemoveGroupMember removes a member from the group. Expenses that reference
// the member are left untouched.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID, memberID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND member_id = ?",
		groupID, memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removed rows: %w", err)
	}
	if n == 0 {
		return notFound("member", memberID)
	}
	return s.touchGroup(ctx, groupID)
}

// UpdateGroupCurrency sets the group's currency code.
func (s *SQLiteStore) UpdateGroupCurrency(ctx context.Context, groupID, currency string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE groups SET currency = ?, updated_at = ? WHERE id = ?",
		currency, time.Now().Unix(), groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update currency: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return notFound("group", groupID)
	}
	return nil
}

// AddExpenseType appends an expense type. Adding a type that already exists
// (ignoring case) is a no-op.
func (s *SQLiteStore) AddExpenseType(ctx context.Context, groupID, expenseType string) error {
	if err := s.groupExists(ctx, groupID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_expense_types (group_id, name, position)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM group_expense_types WHERE group_id = ?))
		 ON CONFLICT (group_id, name) DO NOTHING`,
		groupID, strings.TrimSpace(expenseType), groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to add expense type: %w", err)
	}
	return s.touchGroup(ctx, groupID)
}

func (s *SQLiteStore) groupExists(ctx context.Context, groupID string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("group", groupID)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	return nil
}

func (s *SQLiteStore) touchGroup(ctx context.Context, groupID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE groups SET updated_at = ? WHERE id = ?", time.Now().Unix(), groupID)
	if err != nil {
		return fmt.Errorf("failed to touch group: %w", err)
	}
	return nil
}

// newInviteCode returns 10 random hex characters.
func newInviteCode() (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return hex.EncodeToString(b), nil
}
