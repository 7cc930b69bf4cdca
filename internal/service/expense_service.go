package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// dashboardFetchLimit bounds concurrent store reads in GetDashboard.
const dashboardFetchLimit = 4

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store   storage.Store
	access  groupAccess
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewExpenseService creates an ExpenseService. m may be nil.
func NewExpenseService(store storage.Store, m *metrics.Metrics) *ExpenseService {
	return &ExpenseService{
		store:   store,
		access:  groupAccess{store: store},
		metrics: m,
		now:     time.Now,
	}
}

// CreateExpense records a shared expense. Payer and involved members are matched
// against the group by ID when given, otherwise by name ignoring case.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"involved_count", len(req.Msg.Involved),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.Msg.Amount, true)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Msg.Description)
	if description == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("description is required"))
	}

	group, userID, err := s.access.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	expenseType, ok := canonicalType(group, req.Msg.Type)
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("type %q is not one of the group's expense types", req.Msg.Type))
	}

	payer, err := matchMember(group, req.Msg.PaidByUserID, req.Msg.PaidBy)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("paidBy: %w", err))
	}

	involved := make([]models.InvolvedMember, 0, len(req.Msg.Involved))
	seen := make(map[string]bool, len(req.Msg.Involved))
	for _, inv := range req.Msg.Involved {
		m, err := matchMember(group, inv.UserID, inv.Name)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("involved: %w", err))
		}
		if seen[m.ID] {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("involved: %s is listed twice", m.Name))
		}
		seen[m.ID] = true
		involved = append(involved, models.InvolvedMember{UserID: m.ID, Name: m.Name})
	}

	date := req.Msg.Date
	if date == 0 {
		date = s.now().Unix()
	}

	expense := &models.Expense{
		GroupID:      group.ID,
		Description:  description,
		Amount:       amount,
		Type:         expenseType,
		PaidBy:       payer.Name,
		PaidByUserID: payer.ID,
		Involved:     involved,
		Date:         date,
		Note:         strings.TrimSpace(req.Msg.Note),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, storeError("CreateExpense", err, "group_id", group.ID)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID, "created_by", userID)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses lists a group's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	group, _, err := s.access.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, storeError("ListExpensesByGroup", err, "group_id", group.ID)
	}

	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// GetBalances reports every member's net, the group totals and a simplified
// payment plan that settles the whole group.
func (s *ExpenseService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	group, balances, _, err := s.loadBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	names := memberNames(group)
	out := make([]api.MemberBalance, 0, balances.Len())
	for _, entry := range balances.Entries() {
		out = append(out, api.MemberBalance{
			MemberID: entry.MemberID,
			Name:     names[entry.MemberID],
			Net:      calculator.RoundForDisplay(entry.Net, group.Currency),
		})
	}

	plan := calculator.SimplifyDebts(balances)
	transfers := make([]api.Transfer, len(plan))
	for i, t := range plan {
		transfers[i] = api.Transfer{
			FromID:   t.From,
			FromName: names[t.From],
			ToID:     t.To,
			ToName:   names[t.To],
			Amount:   calculator.RoundForDisplay(t.Amount, group.Currency),
		}
	}

	slog.Info("GetBalances successful",
		"group_id", group.ID,
		"members", len(out),
		"transfers", len(transfers),
	)

	return connect.NewResponse(&api.GetBalancesResponse{
		Currency:       group.Currency,
		Balances:       out,
		TotalOwe:       calculator.RoundForDisplay(balances.TotalOwe(), group.Currency),
		TotalOwed:      calculator.RoundForDisplay(balances.TotalOwed(), group.Currency),
		Transfers:      transfers,
		UnresolvedRefs: len(balances.Unresolved()),
	}), nil
}

// GetMySettlements reports whom the caller pays or is paid by to settle up.
func (s *ExpenseService) GetMySettlements(ctx context.Context, req *connect.Request[api.GetMySettlementsRequest]) (*connect.Response[api.GetMySettlementsResponse], error) {
	slog.Info("GetMySettlements request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	group, balances, userID, err := s.loadBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	names := memberNames(group)
	entries := calculator.ComputeSettlementsFor(balances, userID, group.CalculatorMembers())
	settlements := make([]api.Settlement, len(entries))
	for i, e := range entries {
		settlements[i] = api.Settlement{
			CounterpartyID:   e.CounterpartyID,
			CounterpartyName: names[e.CounterpartyID],
			Amount:           calculator.RoundForDisplay(e.Amount, group.Currency),
			Direction:        string(e.Direction),
		}
	}

	return connect.NewResponse(&api.GetMySettlementsResponse{
		Currency:    group.Currency,
		Net:         calculator.RoundForDisplay(balances.Net(userID), group.Currency),
		Settlements: settlements,
	}), nil
}

// GetSpendingSummary reports this week's and month's group spending and how each
// expense moved the caller's balance.
func (s *ExpenseService) GetSpendingSummary(ctx context.Context, req *connect.Request[api.GetSpendingSummaryRequest]) (*connect.Response[api.GetSpendingSummaryResponse], error) {
	slog.Info("GetSpendingSummary request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	group, userID, err := s.access.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, storeError("ListExpensesByGroup", err, "group_id", group.ID)
	}

	now := s.now()
	calc := models.CalculatorExpenses(expenses)
	members := group.CalculatorMembers()

	deltas := make([]api.ExpenseDelta, len(expenses))
	for i, e := range expenses {
		deltas[i] = api.ExpenseDelta{
			ExpenseID: e.ID,
			Delta:     calculator.RoundForDisplay(calculator.ExpenseDelta(calc[i], userID, members), group.Currency),
		}
	}

	return connect.NewResponse(&api.GetSpendingSummaryResponse{
		Currency:   group.Currency,
		WeekTotal:  calculator.RoundForDisplay(calculator.PeriodTotal(calc, calculator.PeriodWeek, now), group.Currency),
		MonthTotal: calculator.RoundForDisplay(calculator.PeriodTotal(calc, calculator.PeriodMonth, now), group.Currency),
		Deltas:     deltas,
	}), nil
}

// GetDashboard reports the caller's net in each of their groups and the overall
// amounts they owe and are owed. Totals add nets across groups without conversion.
func (s *ExpenseService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetDashboard request received", "user_id", userID)

	groups, err := s.store.ListGroupsForMember(ctx, userID)
	if err != nil {
		return nil, storeError("ListGroupsForMember", err, "user_id", userID)
	}

	nets := make([]decimal.Decimal, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardFetchLimit)
	for i, group := range groups {
		g.Go(func() error {
			expenses, err := s.store.ListExpensesByGroup(gctx, group.ID)
			if err != nil {
				return fmt.Errorf("group %s: %w", group.ID, err)
			}
			balances := s.computeBalances(group, expenses)
			nets[i] = balances.Net(userID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeError("GetDashboard", err, "user_id", userID)
	}

	summaries := make([]api.GroupSummary, len(groups))
	totalOwe, totalOwed := decimal.Zero, decimal.Zero
	for i, group := range groups {
		net := nets[i]
		if net.IsNegative() {
			totalOwe = totalOwe.Add(net.Neg())
		} else {
			totalOwed = totalOwed.Add(net)
		}
		summaries[i] = api.GroupSummary{
			GroupID:  group.ID,
			Name:     group.Name,
			Currency: group.Currency,
			Net:      calculator.RoundForDisplay(net, group.Currency),
		}
	}

	return connect.NewResponse(&api.GetDashboardResponse{
		Groups:    summaries,
		TotalOwe:  calculator.RoundForDisplay(totalOwe, calculator.DefaultCurrency),
		TotalOwed: calculator.RoundForDisplay(totalOwed, calculator.DefaultCurrency),
	}), nil
}

// loadBalances checks membership and folds the group's expenses into balances.
func (s *ExpenseService) loadBalances(ctx context.Context, groupID string) (*models.Group, *calculator.Balances, string, error) {
	group, userID, err := s.access.member(ctx, groupID)
	if err != nil {
		return nil, nil, "", err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, nil, "", storeError("ListExpensesByGroup", err, "group_id", group.ID)
	}
	return group, s.computeBalances(group, expenses), userID, nil
}

func (s *ExpenseService) computeBalances(group *models.Group, expenses []*models.Expense) *calculator.Balances {
	return foldBalances(s.metrics, group, expenses)
}

// canonicalType returns the group's spelling of an expense type, matched ignoring case.
func canonicalType(group *models.Group, t string) (string, bool) {
	t = strings.TrimSpace(t)
	for _, existing := range group.ExpenseTypes {
		if strings.EqualFold(existing, t) {
			return existing, true
		}
	}
	return "", false
}

// matchMember finds a current member by ID, falling back to a case-insensitive name match.
func matchMember(group *models.Group, id, name string) (models.Member, error) {
	if id != "" {
		m, ok := group.FindMember(id)
		if !ok {
			return models.Member{}, fmt.Errorf("member %s is not in the group", id)
		}
		return m, nil
	}
	m, ok := group.FindMemberByName(name)
	if !ok {
		return models.Member{}, fmt.Errorf("%q is not a member of the group", name)
	}
	return m, nil
}
