package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("Alice@Example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("GetUserByEmail normalizes email", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "  alice@example.COM ")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Fatalf("Expected user %s, got %+v", user.ID, got)
		}
	})

	t.Run("GetUserByID returns nil for unknown user", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, "missing")
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil user, got %+v", got)
		}
	})

	t.Run("CreateUser rejects duplicate email", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected error for duplicate email, got nil")
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:          "Roommates",
		CreatedByID:   "u1",
		CreatedByName: "Alice",
		Members: []models.Member{
			{ID: "u1", Name: "Alice", Role: models.RoleAdmin},
		},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("CreateGroup fills defaults", func(t *testing.T) {
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if len(group.InviteCode) != 10 {
			t.Errorf("Expected 10 character invite code, got %q", group.InviteCode)
		}
		if group.Currency != "USD" {
			t.Errorf("Expected default currency USD, got %s", group.Currency)
		}
		if len(group.ExpenseTypes) != len(models.DefaultExpenseTypes) {
			t.Errorf("Expected %d default expense types, got %d", len(models.DefaultExpenseTypes), len(group.ExpenseTypes))
		}
	})

	t.Run("members keep join order", func(t *testing.T) {
		if err := store.AddGroupMember(ctx, group.ID, models.Member{ID: "u2", Name: "Bob", Role: models.RoleMember}); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
		if err := store.AddGroupMember(ctx, group.ID, models.Member{ID: "u3", Name: "Carol", Role: models.RoleMember}); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}

		got, err := store.GetGroupByInviteCode(ctx, group.InviteCode)
		if err != nil {
			t.Fatalf("GetGroupByInviteCode failed: %v", err)
		}
		want := []string{"u1", "u2", "u3"}
		if len(got.Members) != len(want) {
			t.Fatalf("Expected %d members, got %d", len(want), len(got.Members))
		}
		for i, id := range want {
			if got.Members[i].ID != id {
				t.Errorf("Member %d: got %s, want %s", i, got.Members[i].ID, id)
			}
		}
		if got.Members[0].Role != models.RoleAdmin {
			t.Errorf("Expected creator to be admin, got %s", got.Members[0].Role)
		}
	})

	t.Run("RemoveGroupMember", func(t *testing.T) {
		if err := store.RemoveGroupMember(ctx, group.ID, "u2"); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.IsMember("u2") {
			t.Error("Expected u2 to be removed")
		}

		err = store.RemoveGroupMember(ctx, group.ID, "u2")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound removing twice, got %v", err)
		}
	})

	t.Run("ListGroupsForMember", func(t *testing.T) {
		other := &models.Group{
			Name:        "Trip",
			CreatedByID: "u3",
			Members:     []models.Member{{ID: "u3", Name: "Carol", Role: models.RoleAdmin}},
			CreatedAt:   group.CreatedAt + 10,
		}
		if err := store.CreateGroup(ctx, other); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		groups, err := store.ListGroupsForMember(ctx, "u3")
		if err != nil {
			t.Fatalf("ListGroupsForMember failed: %v", err)
		}
		if len(groups) != 2 {
			t.Fatalf("Expected 2 groups, got %d", len(groups))
		}
		if groups[0].ID != other.ID {
			t.Errorf("Expected newest group first, got %s", groups[0].Name)
		}

		groups, err = store.ListGroupsForMember(ctx, "nobody")
		if err != nil {
			t.Fatalf("ListGroupsForMember failed: %v", err)
		}
		if len(groups) != 0 {
			t.Errorf("Expected no groups, got %d", len(groups))
		}
	})

	t.Run("UpdateGroupCurrency", func(t *testing.T) {
		if err := store.UpdateGroupCurrency(ctx, group.ID, "EUR"); err != nil {
			t.Fatalf("UpdateGroupCurrency failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, group.ID)
		if got.Currency != "EUR" {
			t.Errorf("Expected EUR, got %s", got.Currency)
		}

		err := store.UpdateGroupCurrency(ctx, "missing", "EUR")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("AddExpenseType ignores case duplicates", func(t *testing.T) {
		if err := store.AddExpenseType(ctx, group.ID, "Pets"); err != nil {
			t.Fatalf("AddExpenseType failed: %v", err)
		}
		if err := store.AddExpenseType(ctx, group.ID, "pets"); err != nil {
			t.Fatalf("AddExpenseType failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, group.ID)
		if len(got.ExpenseTypes) != len(models.DefaultExpenseTypes)+1 {
			t.Errorf("Expected one new expense type, got %v", got.ExpenseTypes)
		}
		if got.ExpenseTypes[len(got.ExpenseTypes)-1] != "Pets" {
			t.Errorf("Expected Pets appended last, got %v", got.ExpenseTypes)
		}
	})

	t.Run("GetGroup returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		_, err = store.GetGroupByInviteCode(ctx, "0000000000")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:        "Flat",
		CreatedByID: "u1",
		Members: []models.Member{
			{ID: "u1", Name: "Alice", Role: models.RoleAdmin},
			{ID: "u2", Name: "Bob", Role: models.RoleMember},
		},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	older := &models.Expense{
		GroupID:      group.ID,
		Description:  "Rent",
		Amount:       decimal.RequireFromString("1200.50"),
		Type:         "Housing",
		PaidBy:       "Alice",
		PaidByUserID: "u1",
		Involved:     []models.InvolvedMember{{UserID: "u1", Name: "Alice"}, {UserID: "u2", Name: "Bob"}},
		Date:         1_700_000_000,
		Note:         "October",
	}
	newer := &models.Expense{
		GroupID:     group.ID,
		Description: "Legacy row",
		Amount:      decimal.RequireFromString("9.99"),
		Type:        "Food",
		PaidBy:      "Bob",
		Involved:    []models.InvolvedMember{{Name: "Bob"}},
		Date:        1_700_100_000,
	}
	for _, e := range []*models.Expense{older, newer} {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if e.ID == "" {
			t.Error("Expected expense ID to be generated")
		}
	}

	expenses, err := store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListExpensesByGroup failed: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("Expected 2 expenses, got %d", len(expenses))
	}

	t.Run("newest first", func(t *testing.T) {
		if expenses[0].ID != newer.ID {
			t.Errorf("Expected newer expense first, got %s", expenses[0].Description)
		}
	})

	t.Run("round-trips amount and involved members", func(t *testing.T) {
		got := expenses[1]
		if !got.Amount.Equal(older.Amount) {
			t.Errorf("Amount mismatch: got %s, want %s", got.Amount, older.Amount)
		}
		if got.Note != "October" {
			t.Errorf("Note mismatch: got %q", got.Note)
		}
		if len(got.Involved) != 2 || got.Involved[1].UserID != "u2" {
			t.Errorf("Involved mismatch: got %+v", got.Involved)
		}
		if expenses[0].PaidByUserID != "" || expenses[0].Involved[0].Name != "Bob" {
			t.Errorf("Expected name-only legacy references preserved, got %+v", expenses[0])
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := store.ListExpensesByGroup(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("carol@example.com", "Carol", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	tx := &models.Transaction{
		UserID:   user.ID,
		Type:     models.TransactionIncome,
		Category: "Salary",
		Amount:   decimal.RequireFromString("3000"),
	}
	if err := store.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	t.Run("GetTransaction", func(t *testing.T) {
		got, err := store.GetTransaction(ctx, tx.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if got.Type != models.TransactionIncome || !got.Amount.Equal(tx.Amount) {
			t.Errorf("Transaction mismatch: got %+v", got)
		}
		if got.Date == 0 {
			t.Error("Expected Date to default to now")
		}
	})

	t.Run("UpdateTransaction", func(t *testing.T) {
		tx.Type = models.TransactionExpense
		tx.Category = "Rent"
		tx.Note = "moved"
		if err := store.UpdateTransaction(ctx, tx); err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}
		list, err := store.ListTransactionsByUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListTransactionsByUser failed: %v", err)
		}
		if len(list) != 1 || list[0].Category != "Rent" || list[0].Note != "moved" {
			t.Errorf("Unexpected transactions: %+v", list)
		}
	})

	t.Run("DeleteTransaction", func(t *testing.T) {
		if err := store.DeleteTransaction(ctx, tx.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		_, err := store.GetTransaction(ctx, tx.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteTransaction(ctx, tx.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
		}
	})
}
