package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

var errRemoveSelf = errors.New("the admin cannot remove themself")

// GroupService implements the Connect GroupService.
type GroupService struct {
	store   storage.Store
	access  groupAccess
	metrics *metrics.Metrics
}

// NewGroupService creates a new GroupService with the given storage backend. m may be nil.
func NewGroupService(store storage.Store, m *metrics.Metrics) *GroupService {
	return &GroupService{store: store, access: groupAccess{store: store}, metrics: m}
}

// CreateGroup creates a new group with the caller as admin.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received", "name", req.Msg.Name)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("name is required"))
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError("GetUserByID", err, "user_id", userID)
	}
	if user == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, errNoSession)
	}

	group := &models.Group{
		Name:          name,
		CreatedByID:   user.ID,
		CreatedByName: user.DisplayName,
		Members: []models.Member{
			{ID: user.ID, Name: user.DisplayName, Role: models.RoleAdmin},
		},
	}

	// Save to storage (generates ID, invite code and defaults)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, storeError("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID, "created_by", user.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	group, _, err := s.access.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups lists the caller's groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListGroups request received", "user_id", userID)

	groups, err := s.store.ListGroupsForMember(ctx, userID)
	if err != nil {
		return nil, storeError("ListGroupsForMember", err, "user_id", userID)
	}

	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}

	slog.Info("ListGroups successful", "count", len(out))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// JoinGroup adds the caller to the group owning the invite code. Joining twice is a no-op.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("JoinGroup request received", "user_id", userID)

	group, err := s.store.GetGroupByInviteCode(ctx, strings.ToLower(req.Msg.InviteCode))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, errors.New("invalid invite code"))
		}
		return nil, storeError("GetGroupByInviteCode", err)
	}

	if group.IsMember(userID) {
		return connect.NewResponse(&api.JoinGroupResponse{Group: toAPIGroup(group), AlreadyMember: true}), nil
	}

	name := strings.TrimSpace(req.Msg.MemberName)
	if name == "" {
		user, err := s.store.GetUserByID(ctx, userID)
		if err != nil {
			return nil, storeError("GetUserByID", err, "user_id", userID)
		}
		if user == nil {
			return nil, connect.NewError(connect.CodeUnauthenticated, errNoSession)
		}
		name = user.DisplayName
	}

	// Names must stay unique so name-only expense references resolve to one member
	if existing, ok := group.FindMemberByName(name); ok {
		return nil, connect.NewError(connect.CodeAlreadyExists,
			fmt.Errorf("a member named %q already exists in this group", existing.Name))
	}

	member := models.Member{ID: userID, Name: name, Role: models.RoleMember}
	if err := s.store.AddGroupMember(ctx, group.ID, member); err != nil {
		return nil, storeError("AddGroupMember", err, "group_id", group.ID)
	}
	group.Members = append(group.Members, member)

	slog.Info("Member joined group", "group_id", group.ID, "user_id", userID, "name", name)

	return connect.NewResponse(&api.JoinGroupResponse{Group: toAPIGroup(group)}), nil
}

// UpdateCurrency changes the group's display currency. Admin only.
func (s *GroupService) UpdateCurrency(ctx context.Context, req *connect.Request[api.UpdateCurrencyRequest]) (*connect.Response[api.UpdateCurrencyResponse], error) {
	slog.Info("UpdateCurrency request received", "group_id", req.Msg.GroupID, "currency", req.Msg.Currency)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	code, err := calculator.NormalizeCurrency(req.Msg.Currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	group, _, err := s.access.admin(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateGroupCurrency(ctx, group.ID, code); err != nil {
		return nil, storeError("UpdateGroupCurrency", err, "group_id", group.ID)
	}
	group.Currency = code

	slog.Info("Group currency updated", "group_id", group.ID, "currency", code)

	return connect.NewResponse(&api.UpdateCurrencyResponse{Group: toAPIGroup(group)}), nil
}

// AddExpenseType adds an allowed expense type. Admin only; existing types are left as-is.
func (s *GroupService) AddExpenseType(ctx context.Context, req *connect.Request[api.AddExpenseTypeRequest]) (*connect.Response[api.AddExpenseTypeResponse], error) {
	slog.Info("AddExpenseType request received", "group_id", req.Msg.GroupID, "type", req.Msg.ExpenseType)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	expenseType := strings.TrimSpace(req.Msg.ExpenseType)
	if expenseType == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("expenseType is required"))
	}

	group, _, err := s.access.admin(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	if !group.HasExpenseType(expenseType) {
		if err := s.store.AddExpenseType(ctx, group.ID, expenseType); err != nil {
			return nil, storeError("AddExpenseType", err, "group_id", group.ID)
		}
		group.ExpenseTypes = append(group.ExpenseTypes, expenseType)
		slog.Info("Expense type added", "group_id", group.ID, "type", expenseType)
	}

	return connect.NewResponse(&api.AddExpenseTypeResponse{Group: toAPIGroup(group)}), nil
}

// RemoveMember removes a member from the group. Admin only. The member's expenses
// stay, and their net at removal time is reported back.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	group, userID, err := s.access.admin(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if req.Msg.MemberID == userID {
		return nil, connect.NewError(connect.CodeInvalidArgument, errRemoveSelf)
	}
	if !group.IsMember(req.Msg.MemberID) {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("member %s not in group", req.Msg.MemberID))
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, storeError("ListExpensesByGroup", err, "group_id", group.ID)
	}
	balances := foldBalances(s.metrics, group, expenses)
	unsettled := balances.Net(req.Msg.MemberID)

	if err := s.store.RemoveGroupMember(ctx, group.ID, req.Msg.MemberID); err != nil {
		return nil, storeError("RemoveGroupMember", err, "group_id", group.ID)
	}

	remaining := group.Members[:0:0]
	for _, m := range group.Members {
		if m.ID != req.Msg.MemberID {
			remaining = append(remaining, m)
		}
	}
	group.Members = remaining

	if !unsettled.IsZero() {
		slog.Warn("Removed member has unsettled balance",
			"group_id", group.ID,
			"member_id", req.Msg.MemberID,
			"net", unsettled.String(),
		)
	}
	slog.Info("Member removed", "group_id", group.ID, "member_id", req.Msg.MemberID)

	return connect.NewResponse(&api.RemoveMemberResponse{
		Group:            toAPIGroup(group),
		UnsettledBalance: calculator.RoundForDisplay(unsettled, group.Currency),
	}), nil
}
