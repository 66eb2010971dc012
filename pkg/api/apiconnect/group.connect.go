package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/rlee603166/sharify/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "sharify.v1.GroupService"

// These constants are the fully-qualified names of the RPCs defined in this package.
const (
	GroupServiceCreateGroupProcedure  = "/sharify.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure     = "/sharify.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure   = "/sharify.v1.GroupService/ListGroups"
	GroupServiceUpdateGroupProcedure  = "/sharify.v1.GroupService/UpdateGroup"
	GroupServiceDeleteGroupProcedure  = "/sharify.v1.GroupService/DeleteGroup"
	GroupServiceAddFriendProcedure    = "/sharify.v1.GroupService/AddFriend"
	GroupServiceListFriendsProcedure  = "/sharify.v1.GroupService/ListFriends"
	GroupServiceRemoveFriendProcedure = "/sharify.v1.GroupService/RemoveFriend"
)

// GroupServiceClient is a client for the sharify.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	AddFriend(context.Context, *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error)
	ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error)
	RemoveFriend(context.Context, *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error)
}

// NewGroupServiceClient constructs a client for the sharify.v1.GroupService service.
// The baseURL should include the scheme and host, e.g. http://localhost:8080.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &groupServiceClient{
		createGroup: connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](
			httpClient,
			baseURL+GroupServiceCreateGroupProcedure,
			opts...,
		),
		getGroup: connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](
			httpClient,
			baseURL+GroupServiceGetGroupProcedure,
			opts...,
		),
		listGroups: connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](
			httpClient,
			baseURL+GroupServiceListGroupsProcedure,
			opts...,
		),
		updateGroup: connect.NewClient[api.UpdateGroupRequest, api.UpdateGroupResponse](
			httpClient,
			baseURL+GroupServiceUpdateGroupProcedure,
			opts...,
		),
		deleteGroup: connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](
			httpClient,
			baseURL+GroupServiceDeleteGroupProcedure,
			opts...,
		),
		addFriend: connect.NewClient[api.AddFriendRequest, api.AddFriendResponse](
			httpClient,
			baseURL+GroupServiceAddFriendProcedure,
			opts...,
		),
		listFriends: connect.NewClient[api.ListFriendsRequest, api.ListFriendsResponse](
			httpClient,
			baseURL+GroupServiceListFriendsProcedure,
			opts...,
		),
		removeFriend: connect.NewClient[api.RemoveFriendRequest, api.RemoveFriendResponse](
			httpClient,
			baseURL+GroupServiceRemoveFriendProcedure,
			opts...,
		),
	}
}

type groupServiceClient struct {
	createGroup  *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup     *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups   *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	updateGroup  *connect.Client[api.UpdateGroupRequest, api.UpdateGroupResponse]
	deleteGroup  *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	addFriend    *connect.Client[api.AddFriendRequest, api.AddFriendResponse]
	listFriends  *connect.Client[api.ListFriendsRequest, api.ListFriendsResponse]
	removeFriend *connect.Client[api.RemoveFriendRequest, api.RemoveFriendResponse]
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

func (c *groupServiceClient) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddFriend(ctx context.Context, req *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error) {
	return c.addFriend.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	return c.listFriends.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveFriend(ctx context.Context, req *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error) {
	return c.removeFriend.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the server side of sharify.v1.GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	AddFriend(context.Context, *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error)
	ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error)
	RemoveFriend(context.Context, *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	groupServiceCreateGroupHandler := connect.NewUnaryHandler(
		GroupServiceCreateGroupProcedure,
		svc.CreateGroup,
		opts...,
	)
	groupServiceGetGroupHandler := connect.NewUnaryHandler(
		GroupServiceGetGroupProcedure,
		svc.GetGroup,
		opts...,
	)
	groupServiceListGroupsHandler := connect.NewUnaryHandler(
		GroupServiceListGroupsProcedure,
		svc.ListGroups,
		opts...,
	)
	groupServiceUpdateGroupHandler := connect.NewUnaryHandler(
		GroupServiceUpdateGroupProcedure,
		svc.UpdateGroup,
		opts...,
	)
	groupServiceDeleteGroupHandler := connect.NewUnaryHandler(
		GroupServiceDeleteGroupProcedure,
		svc.DeleteGroup,
		opts...,
	)
	groupServiceAddFriendHandler := connect.NewUnaryHandler(
		GroupServiceAddFriendProcedure,
		svc.AddFriend,
		opts...,
	)
	groupServiceListFriendsHandler := connect.NewUnaryHandler(
		GroupServiceListFriendsProcedure,
		svc.ListFriends,
		opts...,
	)
	groupServiceRemoveFriendHandler := connect.NewUnaryHandler(
		GroupServiceRemoveFriendProcedure,
		svc.RemoveFriend,
		opts...,
	)
	return "/sharify.v1.GroupService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			groupServiceCreateGroupHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			groupServiceGetGroupHandler.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			groupServiceListGroupsHandler.ServeHTTP(w, r)
		case GroupServiceUpdateGroupProcedure:
			groupServiceUpdateGroupHandler.ServeHTTP(w, r)
		case GroupServiceDeleteGroupProcedure:
			groupServiceDeleteGroupHandler.ServeHTTP(w, r)
		case GroupServiceAddFriendProcedure:
			groupServiceAddFriendHandler.ServeHTTP(w, r)
		case GroupServiceListFriendsProcedure:
			groupServiceListFriendsHandler.ServeHTTP(w, r)
		case GroupServiceRemoveFriendProcedure:
			groupServiceRemoveFriendHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.GroupService.CreateGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.GroupService.GetGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.GroupService.ListGroups is not implemented"))
}

func (UnimplementedGroupServiceHandler) UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.GroupService.UpdateGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.GroupService.DeleteGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) AddFriend(context.Context, *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.GroupService.AddFriend is not implemented"))
}

func (UnimplementedGroupServiceHandler) ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.GroupService.ListFriends is not implemented"))
}

func (UnimplementedGroupServiceHandler) RemoveFriend(context.Context, *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.GroupService.RemoveFriend is not implemented"))
}
