package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "splitledger.v1.GroupService"

// Procedure paths, as the Connect HTTP routes.
const (
	GroupServiceCreateGroupProcedure    = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceGetGroupProcedure       = "/" + GroupServiceName + "/GetGroup"
	GroupServiceListGroupsProcedure     = "/" + GroupServiceName + "/ListGroups"
	GroupServiceJoinGroupProcedure      = "/" + GroupServiceName + "/JoinGroup"
	GroupServiceUpdateCurrencyProcedure = "/" + GroupServiceName + "/UpdateCurrency"
	GroupServiceAddExpenseTypeProcedure = "/" + GroupServiceName + "/AddExpenseType"
	GroupServiceRemoveMemberProcedure   = "/" + GroupServiceName + "/RemoveMember"
)

// GroupServiceClient is a client for the splitledger.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	UpdateCurrency(context.Context, *connect.Request[api.UpdateCurrencyRequest]) (*connect.Response[api.UpdateCurrencyResponse], error)
	AddExpenseType(context.Context, *connect.Request[api.AddExpenseTypeRequest]) (*connect.Response[api.AddExpenseTypeResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
}

// NewGroupServiceClient constructs a client for the splitledger.v1.GroupService service.
// The JSON codec is always applied; opts may add interceptors or headers.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{api.WithJSON()}, opts...)
	return &groupServiceClient{
		createGroup:    connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:       connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:     connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		joinGroup:      connect.NewClient[api.JoinGroupRequest, api.JoinGroupResponse](httpClient, baseURL+GroupServiceJoinGroupProcedure, opts...),
		updateCurrency: connect.NewClient[api.UpdateCurrencyRequest, api.UpdateCurrencyResponse](httpClient, baseURL+GroupServiceUpdateCurrencyProcedure, opts...),
		addExpenseType: connect.NewClient[api.AddExpenseTypeRequest, api.AddExpenseTypeResponse](httpClient, baseURL+GroupServiceAddExpenseTypeProcedure, opts...),
		removeMember:   connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+GroupServiceRemoveMemberProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup    *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup       *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups     *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	joinGroup      *connect.Client[api.JoinGroupRequest, api.JoinGroupResponse]
	updateCurrency *connect.Client[api.UpdateCurrencyRequest, api.UpdateCurrencyResponse]
	addExpenseType *connect.Client[api.AddExpenseTypeRequest, api.AddExpenseTypeResponse]
	removeMember   *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) UpdateCurrency(ctx context.Context, req *connect.Request[api.UpdateCurrencyRequest]) (*connect.Response[api.UpdateCurrencyResponse], error) {
	return c.updateCurrency.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddExpenseType(ctx context.Context, req *connect.Request[api.AddExpenseTypeRequest]) (*connect.Response[api.AddExpenseTypeResponse], error) {
	return c.addExpenseType.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the server side of splitledger.v1.GroupService.
// GroupService manages groups, membership and group settings.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	UpdateCurrency(context.Context, *connect.Request[api.UpdateCurrencyRequest]) (*connect.Response[api.UpdateCurrencyResponse], error)
	AddExpenseType(context.Context, *connect.Request[api.AddExpenseTypeRequest]) (*connect.Response[api.AddExpenseTypeResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{api.WithJSON()}, opts...)
	createGroupHandler := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	getGroupHandler := connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...)
	listGroupsHandler := connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...)
	joinGroupHandler := connect.NewUnaryHandler(GroupServiceJoinGroupProcedure, svc.JoinGroup, opts...)
	updateCurrencyHandler := connect.NewUnaryHandler(GroupServiceUpdateCurrencyProcedure, svc.UpdateCurrency, opts...)
	addExpenseTypeHandler := connect.NewUnaryHandler(GroupServiceAddExpenseTypeProcedure, svc.AddExpenseType, opts...)
	removeMemberHandler := connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...)
	return "/" + GroupServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroupHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			getGroupHandler.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			listGroupsHandler.ServeHTTP(w, r)
		case GroupServiceJoinGroupProcedure:
			joinGroupHandler.ServeHTTP(w, r)
		case GroupServiceUpdateCurrencyProcedure:
			updateCurrencyHandler.ServeHTTP(w, r)
		case GroupServiceAddExpenseTypeProcedure:
			addExpenseTypeHandler.ServeHTTP(w, r)
		case GroupServiceRemoveMemberProcedure:
			removeMemberHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
