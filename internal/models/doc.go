// Package models defines the persistent domain records for splitledger.
//
// # Records
//
//   - User: a registered account (email + bcrypt hash)
//   - Group: a set of members sharing expenses, with an invite code, a currency
//     and the list of allowed expense types
//   - Member: one person in a group, admin or regular member
//   - Expense: a shared expense paid by one member and split evenly among the involved
//   - Transaction: a personal income/expense entry, scoped to one user
//
// # Member identity
//
// Members that join through an account use the user ID as their member ID.
// Expenses reference members both by ID and by name, and older rows may hold
// only a name, so balance code resolves references through
// calculator.ResolveMemberRef instead of trusting either field.
//
// Amounts are decimal.Decimal throughout and are stored as TEXT.
package models
