package service

import (
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) api.Group {
	members := make([]api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = api.Member{ID: m.ID, Name: m.Name, Role: string(m.Role)}
	}
	return api.Group{
		ID:            g.ID,
		Name:          g.Name,
		InviteCode:    g.InviteCode,
		CreatedByID:   g.CreatedByID,
		CreatedByName: g.CreatedByName,
		ExpenseTypes:  append([]string{}, g.ExpenseTypes...),
		Members:       members,
		Currency:      g.Currency,
		CreatedAt:     g.CreatedAt,
	}
}

func toAPIExpense(e *models.Expense) api.Expense {
	involved := make([]api.InvolvedMember, len(e.Involved))
	for i, inv := range e.Involved {
		involved[i] = api.InvolvedMember{UserID: inv.UserID, Name: inv.Name}
	}
	return api.Expense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Description:  e.Description,
		Amount:       e.Amount.String(),
		Type:         e.Type,
		PaidBy:       e.PaidBy,
		PaidByUserID: e.PaidByUserID,
		Involved:     involved,
		Date:         e.Date,
		Note:         e.Note,
		CreatedAt:    e.CreatedAt,
	}
}

func toAPITransaction(t *models.Transaction) api.Transaction {
	return api.Transaction{
		ID:        t.ID,
		Type:      string(t.Type),
		Category:  t.Category,
		Amount:    t.Amount.String(),
		Note:      t.Note,
		Date:      t.Date,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// memberNames maps member IDs to display names.
func memberNames(g *models.Group) map[string]string {
	names := make(map[string]string, len(g.Members))
	for _, m := range g.Members {
		names[m.ID] = m.Name
	}
	return names
}
