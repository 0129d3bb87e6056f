package server

import (
	"context"
	"net/http"
)

// DefaultApiRouter defines the required methods for binding the api requests to a responses for the DefaultApi
// The DefaultApiRouter implementation should parse necessary information from the http request,
// pass the data to a DefaultApiServicer to perform the required actions, then write the service results to the http response.
type DefaultApiRouter interface {
	ComputeRoute(http.ResponseWriter, *http.Request)
	ComputeRouteGeoJSON(http.ResponseWriter, *http.Request)
	GetNodes(http.ResponseWriter, *http.Request)
	GetSearchSpace(http.ResponseWriter, *http.Request)
	GetNavigator(http.ResponseWriter, *http.Request)
	SetNavigator(http.ResponseWriter, *http.Request)
}

// DefaultApiServicer defines the api actions for the DefaultApi service
type DefaultApiServicer interface {
	ComputeRoute(context.Context, RouteRequest) (ImplResponse, error)
	ComputeRouteGeoJSON(context.Context, RouteRequest) (ImplResponse, error)
	GetNodes(context.Context) (ImplResponse, error)
	GetSearchSpace(context.Context) (ImplResponse, error)
	GetNavigator(context.Context) (ImplResponse, error)
	SetNavigator(context.Context, NavigatorRequest) (ImplResponse, error)
}
