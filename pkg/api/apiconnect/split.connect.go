package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/rlee603166/sharify/pkg/api"
)

// SplitServiceName is the fully-qualified name of the SplitService service.
const SplitServiceName = "sharify.v1.SplitService"

// These constants are the fully-qualified names of the RPCs defined in this package.
const (
	SplitServiceCreateSessionProcedure    = "/sharify.v1.SplitService/CreateSession"
	SplitServiceGetSessionProcedure       = "/sharify.v1.SplitService/GetSession"
	SplitServiceCloseSessionProcedure     = "/sharify.v1.SplitService/CloseSession"
	SplitServiceResolveGroupProcedure     = "/sharify.v1.SplitService/ResolveGroup"
	SplitServiceAddItemProcedure          = "/sharify.v1.SplitService/AddItem"
	SplitServiceUpdateItemProcedure       = "/sharify.v1.SplitService/UpdateItem"
	SplitServiceRemoveItemProcedure       = "/sharify.v1.SplitService/RemoveItem"
	SplitServiceToggleAssignmentProcedure = "/sharify.v1.SplitService/ToggleAssignment"
	SplitServiceComputeSplitProcedure     = "/sharify.v1.SplitService/ComputeSplit"
	SplitServiceStartIngestionProcedure   = "/sharify.v1.SplitService/StartIngestion"
	SplitServiceGetIngestionProcedure     = "/sharify.v1.SplitService/GetIngestion"
)

// SplitServiceClient is a client for the sharify.v1.SplitService service.
type SplitServiceClient interface {
	CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error)
	GetSession(context.Context, *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error)
	CloseSession(context.Context, *connect.Request[api.CloseSessionRequest]) (*connect.Response[api.CloseSessionResponse], error)
	ResolveGroup(context.Context, *connect.Request[api.ResolveGroupRequest]) (*connect.Response[api.ResolveGroupResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error)
	RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.RemoveItemResponse], error)
	ToggleAssignment(context.Context, *connect.Request[api.ToggleAssignmentRequest]) (*connect.Response[api.ToggleAssignmentResponse], error)
	ComputeSplit(context.Context, *connect.Request[api.ComputeSplitRequest]) (*connect.Response[api.ComputeSplitResponse], error)
	StartIngestion(context.Context, *connect.Request[api.StartIngestionRequest]) (*connect.Response[api.StartIngestionResponse], error)
	GetIngestion(context.Context, *connect.Request[api.GetIngestionRequest]) (*connect.Response[api.GetIngestionResponse], error)
}

// NewSplitServiceClient constructs a client for the sharify.v1.SplitService service.
// The baseURL should include the scheme and host, e.g. http://localhost:8080.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &splitServiceClient{
		createSession: connect.NewClient[api.CreateSessionRequest, api.CreateSessionResponse](
			httpClient,
			baseURL+SplitServiceCreateSessionProcedure,
			opts...,
		),
		getSession: connect.NewClient[api.GetSessionRequest, api.GetSessionResponse](
			httpClient,
			baseURL+SplitServiceGetSessionProcedure,
			opts...,
		),
		closeSession: connect.NewClient[api.CloseSessionRequest, api.CloseSessionResponse](
			httpClient,
			baseURL+SplitServiceCloseSessionProcedure,
			opts...,
		),
		resolveGroup: connect.NewClient[api.ResolveGroupRequest, api.ResolveGroupResponse](
			httpClient,
			baseURL+SplitServiceResolveGroupProcedure,
			opts...,
		),
		addItem: connect.NewClient[api.AddItemRequest, api.AddItemResponse](
			httpClient,
			baseURL+SplitServiceAddItemProcedure,
			opts...,
		),
		updateItem: connect.NewClient[api.UpdateItemRequest, api.UpdateItemResponse](
			httpClient,
			baseURL+SplitServiceUpdateItemProcedure,
			opts...,
		),
		removeItem: connect.NewClient[api.RemoveItemRequest, api.RemoveItemResponse](
			httpClient,
			baseURL+SplitServiceRemoveItemProcedure,
			opts...,
		),
		toggleAssignment: connect.NewClient[api.ToggleAssignmentRequest, api.ToggleAssignmentResponse](
			httpClient,
			baseURL+SplitServiceToggleAssignmentProcedure,
			opts...,
		),
		computeSplit: connect.NewClient[api.ComputeSplitRequest, api.ComputeSplitResponse](
			httpClient,
			baseURL+SplitServiceComputeSplitProcedure,
			opts...,
		),
		startIngestion: connect.NewClient[api.StartIngestionRequest, api.StartIngestionResponse](
			httpClient,
			baseURL+SplitServiceStartIngestionProcedure,
			opts...,
		),
		getIngestion: connect.NewClient[api.GetIngestionRequest, api.GetIngestionResponse](
			httpClient,
			baseURL+SplitServiceGetIngestionProcedure,
			opts...,
		),
	}
}

type splitServiceClient struct {
	createSession    *connect.Client[api.CreateSessionRequest, api.CreateSessionResponse]
	getSession       *connect.Client[api.GetSessionRequest, api.GetSessionResponse]
	closeSession     *connect.Client[api.CloseSessionRequest, api.CloseSessionResponse]
	resolveGroup     *connect.Client[api.ResolveGroupRequest, api.ResolveGroupResponse]
	addItem          *connect.Client[api.AddItemRequest, api.AddItemResponse]
	updateItem       *connect.Client[api.UpdateItemRequest, api.UpdateItemResponse]
	removeItem       *connect.Client[api.RemoveItemRequest, api.RemoveItemResponse]
	toggleAssignment *connect.Client[api.ToggleAssignmentRequest, api.ToggleAssignmentResponse]
	computeSplit     *connect.Client[api.ComputeSplitRequest, api.ComputeSplitResponse]
	startIngestion   *connect.Client[api.StartIngestionRequest, api.StartIngestionResponse]
	getIngestion     *connect.Client[api.GetIngestionRequest, api.GetIngestionResponse]
}

func (c *splitServiceClient) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	return c.createSession.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

func (c *splitServiceClient) CloseSession(ctx context.Context, req *connect.Request[api.CloseSessionRequest]) (*connect.Response[api.CloseSessionResponse], error) {
	return c.closeSession.CallUnary(ctx, req)
}

func (c *splitServiceClient) ResolveGroup(ctx context.Context, req *connect.Request[api.ResolveGroupRequest]) (*connect.Response[api.ResolveGroupResponse], error) {
	return c.resolveGroup.CallUnary(ctx, req)
}

func (c *splitServiceClient) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *splitServiceClient) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	return c.updateItem.CallUnary(ctx, req)
}

func (c *splitServiceClient) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.RemoveItemResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

func (c *splitServiceClient) ToggleAssignment(ctx context.Context, req *connect.Request[api.ToggleAssignmentRequest]) (*connect.Response[api.ToggleAssignmentResponse], error) {
	return c.toggleAssignment.CallUnary(ctx, req)
}

func (c *splitServiceClient) ComputeSplit(ctx context.Context, req *connect.Request[api.ComputeSplitRequest]) (*connect.Response[api.ComputeSplitResponse], error) {
	return c.computeSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) StartIngestion(ctx context.Context, req *connect.Request[api.StartIngestionRequest]) (*connect.Response[api.StartIngestionResponse], error) {
	return c.startIngestion.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetIngestion(ctx context.Context, req *connect.Request[api.GetIngestionRequest]) (*connect.Response[api.GetIngestionResponse], error) {
	return c.getIngestion.CallUnary(ctx, req)
}

// SplitServiceHandler is implemented by the server side of sharify.v1.SplitService.
type SplitServiceHandler interface {
	CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error)
	GetSession(context.Context, *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error)
	CloseSession(context.Context, *connect.Request[api.CloseSessionRequest]) (*connect.Response[api.CloseSessionResponse], error)
	ResolveGroup(context.Context, *connect.Request[api.ResolveGroupRequest]) (*connect.Response[api.ResolveGroupResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error)
	RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.RemoveItemResponse], error)
	ToggleAssignment(context.Context, *connect.Request[api.ToggleAssignmentRequest]) (*connect.Response[api.ToggleAssignmentResponse], error)
	ComputeSplit(context.Context, *connect.Request[api.ComputeSplitRequest]) (*connect.Response[api.ComputeSplitResponse], error)
	StartIngestion(context.Context, *connect.Request[api.StartIngestionRequest]) (*connect.Response[api.StartIngestionResponse], error)
	GetIngestion(context.Context, *connect.Request[api.GetIngestionRequest]) (*connect.Response[api.GetIngestionResponse], error)
}

// NewSplitServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	splitServiceCreateSessionHandler := connect.NewUnaryHandler(
		SplitServiceCreateSessionProcedure,
		svc.CreateSession,
		opts...,
	)
	splitServiceGetSessionHandler := connect.NewUnaryHandler(
		SplitServiceGetSessionProcedure,
		svc.GetSession,
		opts...,
	)
	splitServiceCloseSessionHandler := connect.NewUnaryHandler(
		SplitServiceCloseSessionProcedure,
		svc.CloseSession,
		opts...,
	)
	splitServiceResolveGroupHandler := connect.NewUnaryHandler(
		SplitServiceResolveGroupProcedure,
		svc.ResolveGroup,
		opts...,
	)
	splitServiceAddItemHandler := connect.NewUnaryHandler(
		SplitServiceAddItemProcedure,
		svc.AddItem,
		opts...,
	)
	splitServiceUpdateItemHandler := connect.NewUnaryHandler(
		SplitServiceUpdateItemProcedure,
		svc.UpdateItem,
		opts...,
	)
	splitServiceRemoveItemHandler := connect.NewUnaryHandler(
		SplitServiceRemoveItemProcedure,
		svc.RemoveItem,
		opts...,
	)
	splitServiceToggleAssignmentHandler := connect.NewUnaryHandler(
		SplitServiceToggleAssignmentProcedure,
		svc.ToggleAssignment,
		opts...,
	)
	splitServiceComputeSplitHandler := connect.NewUnaryHandler(
		SplitServiceComputeSplitProcedure,
		svc.ComputeSplit,
		opts...,
	)
	splitServiceStartIngestionHandler := connect.NewUnaryHandler(
		SplitServiceStartIngestionProcedure,
		svc.StartIngestion,
		opts...,
	)
	splitServiceGetIngestionHandler := connect.NewUnaryHandler(
		SplitServiceGetIngestionProcedure,
		svc.GetIngestion,
		opts...,
	)
	return "/sharify.v1.SplitService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SplitServiceCreateSessionProcedure:
			splitServiceCreateSessionHandler.ServeHTTP(w, r)
		case SplitServiceGetSessionProcedure:
			splitServiceGetSessionHandler.ServeHTTP(w, r)
		case SplitServiceCloseSessionProcedure:
			splitServiceCloseSessionHandler.ServeHTTP(w, r)
		case SplitServiceResolveGroupProcedure:
			splitServiceResolveGroupHandler.ServeHTTP(w, r)
		case SplitServiceAddItemProcedure:
			splitServiceAddItemHandler.ServeHTTP(w, r)
		case SplitServiceUpdateItemProcedure:
			splitServiceUpdateItemHandler.ServeHTTP(w, r)
		case SplitServiceRemoveItemProcedure:
			splitServiceRemoveItemHandler.ServeHTTP(w, r)
		case SplitServiceToggleAssignmentProcedure:
			splitServiceToggleAssignmentHandler.ServeHTTP(w, r)
		case SplitServiceComputeSplitProcedure:
			splitServiceComputeSplitHandler.ServeHTTP(w, r)
		case SplitServiceStartIngestionProcedure:
			splitServiceStartIngestionHandler.ServeHTTP(w, r)
		case SplitServiceGetIngestionProcedure:
			splitServiceGetIngestionHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSplitServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSplitServiceHandler struct{}

func (UnimplementedSplitServiceHandler) CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.SplitService.CreateSession is not implemented"))
}

func (UnimplementedSplitServiceHandler) GetSession(context.Context, *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.SplitService.GetSession is not implemented"))
}

func (UnimplementedSplitServiceHandler) CloseSession(context.Context, *connect.Request[api.CloseSessionRequest]) (*connect.Response[api.CloseSessionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.SplitService.CloseSession is not implemented"))
}

func (UnimplementedSplitServiceHandler) ResolveGroup(context.Context, *connect.Request[api.ResolveGroupRequest]) (*connect.Response[api.ResolveGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.SplitService.ResolveGroup is not implemented"))
}

func (UnimplementedSplitServiceHandler) AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.SplitService.AddItem is not implemented"))
}

func (UnimplementedSplitServiceHandler) UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.SplitService.UpdateItem is not implemented"))
}

func (UnimplementedSplitServiceHandler) RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.RemoveItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.SplitService.RemoveItem is not implemented"))
}

func (UnimplementedSplitServiceHandler) ToggleAssignment(context.Context, *connect.Request[api.ToggleAssignmentRequest]) (*connect.Response[api.ToggleAssignmentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.SplitService.ToggleAssignment is not implemented"))
}

func (UnimplementedSplitServiceHandler) ComputeSplit(context.Context, *connect.Request[api.ComputeSplitRequest]) (*connect.Response[api.ComputeSplitResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.SplitService.ComputeSplit is not implemented"))
}

func (UnimplementedSplitServiceHandler) StartIngestion(context.Context, *connect.Request[api.StartIngestionRequest]) (*connect.Response[api.StartIngestionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.SplitService.StartIngestion is not implemented"))
}

func (UnimplementedSplitServiceHandler) GetIngestion(context.Context, *connect.Request[api.GetIngestionRequest]) (*connect.Response[api.GetIngestionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharify.v1.SplitService.GetIngestion is not implemented"))
}
