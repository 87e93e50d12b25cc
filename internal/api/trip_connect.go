package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

// TripServiceName is the fully-qualified name of the trip service.
const TripServiceName = "tripledger.v1.TripService"

const (
	TripServiceCreateTripProcedure      = "/tripledger.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure         = "/tripledger.v1.TripService/GetTrip"
	TripServiceListTripsProcedure       = "/tripledger.v1.TripService/ListTrips"
	TripServiceUpdateTripProcedure      = "/tripledger.v1.TripService/UpdateTrip"
	TripServiceDeleteTripProcedure      = "/tripledger.v1.TripService/DeleteTrip"
	TripServiceSetParticipantsProcedure = "/tripledger.v1.TripService/SetParticipants"
)

// TripServiceHandler is implemented by the trip configuration service.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[CreateTripRequest]) (*connect.Response[CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[ListTripsResponse], error)
	UpdateTrip(context.Context, *connect.Request[UpdateTripRequest]) (*connect.Response[UpdateTripResponse], error)
	DeleteTrip(context.Context, *connect.Request[DeleteTripRequest]) (*connect.Response[DeleteTripResponse], error)
	SetParticipants(context.Context, *connect.Request[SetParticipantsRequest]) (*connect.Response[SetParticipantsResponse], error)
}

// NewTripServiceHandler builds an HTTP handler for the trip service.
// It returns the path to mount the handler on.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(TripServiceCreateTripProcedure, connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...))
	mux.Handle(TripServiceGetTripProcedure, connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...))
	mux.Handle(TripServiceListTripsProcedure, connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, opts...))
	mux.Handle(TripServiceUpdateTripProcedure, connect.NewUnaryHandler(TripServiceUpdateTripProcedure, svc.UpdateTrip, opts...))
	mux.Handle(TripServiceDeleteTripProcedure, connect.NewUnaryHandler(TripServiceDeleteTripProcedure, svc.DeleteTrip, opts...))
	mux.Handle(TripServiceSetParticipantsProcedure, connect.NewUnaryHandler(TripServiceSetParticipantsProcedure, svc.SetParticipants, opts...))

	return "/" + TripServiceName + "/", mux
}

// TripServiceClient calls the trip service.
type TripServiceClient struct {
	createTrip      *connect.Client[CreateTripRequest, CreateTripResponse]
	getTrip         *connect.Client[GetTripRequest, GetTripResponse]
	listTrips       *connect.Client[emptypb.Empty, ListTripsResponse]
	updateTrip      *connect.Client[UpdateTripRequest, UpdateTripResponse]
	deleteTrip      *connect.Client[DeleteTripRequest, DeleteTripResponse]
	setParticipants *connect.Client[SetParticipantsRequest, SetParticipantsResponse]
}

// NewTripServiceClient creates a client for the trip service at baseURL.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TripServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)

	return &TripServiceClient{
		createTrip:      connect.NewClient[CreateTripRequest, CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, opts...),
		getTrip:         connect.NewClient[GetTripRequest, GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		listTrips:       connect.NewClient[emptypb.Empty, ListTripsResponse](httpClient, baseURL+TripServiceListTripsProcedure, opts...),
		updateTrip:      connect.NewClient[UpdateTripRequest, UpdateTripResponse](httpClient, baseURL+TripServiceUpdateTripProcedure, opts...),
		deleteTrip:      connect.NewClient[DeleteTripRequest, DeleteTripResponse](httpClient, baseURL+TripServiceDeleteTripProcedure, opts...),
		setParticipants: connect.NewClient[SetParticipantsRequest, SetParticipantsResponse](httpClient, baseURL+TripServiceSetParticipantsProcedure, opts...),
	}
}

func (c *TripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[CreateTripRequest]) (*connect.Response[CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) GetTrip(ctx context.Context, req *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) ListTrips(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

func (c *TripServiceClient) UpdateTrip(ctx context.Context, req *connect.Request[UpdateTripRequest]) (*connect.Response[UpdateTripResponse], error) {
	return c.updateTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) DeleteTrip(ctx context.Context, req *connect.Request[DeleteTripRequest]) (*connect.Response[DeleteTripResponse], error) {
	return c.deleteTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) SetParticipants(ctx context.Context, req *connect.Request[SetParticipantsRequest]) (*connect.Response[SetParticipantsResponse], error) {
	return c.setParticipants.CallUnary(ctx, req)
}
