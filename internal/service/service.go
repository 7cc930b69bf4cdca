// Package service implements the splitledger.v1 Connect services.
//
// Handlers validate the request, check the caller's access to the group, load a
// snapshot from the store and hand it to the calculator package. Store errors map
// to Connect codes: storage.ErrNotFound becomes NotFound, anything else Internal.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	errNotMember   = errors.New("you are not a member of this group")
	errNotAdmin    = errors.New("only the group admin can do this")
	errNoSession   = errors.New("authentication required")
	errInternal    = errors.New("internal error")
	errBadAmount   = errors.New("amount must be a decimal number")
	errNonPositive = errors.New("amount must be greater than zero")
	errNegative    = errors.New("amount must not be negative")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names in messages
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// money: a parseable decimal string
	v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})

	return v
}

// validateRequest runs struct tag validation and reports the first failing field
// as an InvalidArgument error.
func validateRequest(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(connect.CodeInvalidArgument, errors.New(fieldMessage(verrs[0])))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "money":
		return field + " must be a decimal number"
	case "hexadecimal", "alpha":
		return field + " has an invalid format"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// callerID returns the authenticated user ID or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errNoSession)
	}
	return userID, nil
}

// storeError converts a store failure into a Connect error.
func storeError(op string, err error, attrs ...any) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	slog.Error(op+" failed", append(attrs, "error", err)...)
	return connect.NewError(connect.CodeInternal, errInternal)
}

// groupAccess loads the group and checks that the caller belongs to it.
type groupAccess struct {
	store storage.Store
}

func (a groupAccess) member(ctx context.Context, groupID string) (*models.Group, string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, "", err
	}

	group, err := a.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, "", storeError("GetGroup", err, "group_id", groupID)
	}
	if !group.IsMember(userID) {
		slog.Warn("Group access denied", "group_id", groupID, "user_id", userID)
		return nil, "", connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return group, userID, nil
}

func (a groupAccess) admin(ctx context.Context, groupID string) (*models.Group, string, error) {
	group, userID, err := a.member(ctx, groupID)
	if err != nil {
		return nil, "", err
	}
	if !group.IsAdmin(userID) {
		slog.Warn("Admin action denied", "group_id", groupID, "user_id", userID)
		return nil, "", connect.NewError(connect.CodePermissionDenied, errNotAdmin)
	}
	return group, userID, nil
}

// parseAmount parses a wire amount. positive requires > 0, otherwise >= 0.
func parseAmount(s string, positive bool) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, connect.NewError(connect.CodeInvalidArgument, errBadAmount)
	}
	if positive && !amount.IsPositive() {
		return decimal.Zero, connect.NewError(connect.CodeInvalidArgument, errNonPositive)
	}
	if amount.IsNegative() {
		return decimal.Zero, connect.NewError(connect.CodeInvalidArgument, errNegative)
	}
	return amount, nil
}

// foldBalances computes the group's balances and counts the references that
// matched no current member, by role.
func foldBalances(m *metrics.Metrics, group *models.Group, expenses []*models.Expense) *calculator.Balances {
	balances := calculator.ComputeBalances(models.CalculatorExpenses(expenses), group.CalculatorMembers())

	byRole := make(map[calculator.RefRole]int)
	for _, ref := range balances.Unresolved() {
		byRole[ref.Role]++
	}
	for role, n := range byRole {
		m.AddUnresolvedRefs(string(role), n)
	}
	return balances
}
