package server

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/natevvv/bestfirst/pkg/routing"
)

// DefaultApiService implements the DefaultApiServicer on top of a router
type DefaultApiService struct {
	router  *routing.Router
	metrics *Metrics
}

// NewDefaultApiService creates a default api service
func NewDefaultApiService(router *routing.Router, metrics *Metrics) DefaultApiServicer {
	return &DefaultApiService{
		router:  router,
		metrics: metrics,
	}
}

func (s *DefaultApiService) route(ctx context.Context, routeRequest RouteRequest) (routing.Route, string) {
	route := s.router.ComputeRoute(routeRequest.Origin.Orb(), routeRequest.Destination.Orb())
	navigator := s.router.NavigatorName()
	s.metrics.ObserveQuery(navigator, route)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("navigator", navigator),
		attribute.Bool("reachable", route.Exists),
		attribute.Int("expanded", route.Metrics.NodesExpanded),
	)
	return route, navigator
}

// ComputeRoute - Compute a new route
func (s *DefaultApiService) ComputeRoute(ctx context.Context, routeRequest RouteRequest) (ImplResponse, error) {
	route, navigator := s.route(ctx, routeRequest)

	routeResult := RouteResult{
		Origin:      routeRequest.Origin,
		Destination: routeRequest.Destination,
		Reachable:   route.Exists,
		Navigator:   navigator,
		Expanded:    route.Metrics.NodesExpanded,
		Elapsed:     route.Metrics.Elapsed.String(),
	}
	if route.Exists {
		waypoints := make([]Point, 0, len(route.Waypoints))
		for _, waypoint := range route.Waypoints {
			waypoints = append(waypoints, NewPoint(waypoint))
		}
		routeResult.Path = &Path{Length: route.Length, Waypoints: waypoints}
	}
	return Response(http.StatusOK, routeResult), nil
}

func (s *DefaultApiService) ComputeRouteGeoJSON(ctx context.Context, routeRequest RouteRequest) (ImplResponse, error) {
	route, _ := s.route(ctx, routeRequest)
	return Response(http.StatusOK, route.Feature()), nil
}

func (s *DefaultApiService) GetNodes(ctx context.Context) (ImplResponse, error) {
	return Response(http.StatusOK, Nodes{Waypoints: points(s.router.GetNodes())}), nil
}

func (s *DefaultApiService) GetSearchSpace(ctx context.Context) (ImplResponse, error) {
	return Response(http.StatusOK, Nodes{Waypoints: points(s.router.SearchSpace())}), nil
}

func (s *DefaultApiService) GetNavigator(ctx context.Context) (ImplResponse, error) {
	return Response(http.StatusOK, NavigatorResult{Navigator: s.router.NavigatorName(), Available: routing.Navigators()}), nil
}

func (s *DefaultApiService) SetNavigator(ctx context.Context, navigatorRequest NavigatorRequest) (ImplResponse, error) {
	err := s.router.SetNavigator(ctx, navigatorRequest.Navigator)
	switch {
	case errors.Is(err, routing.ErrUnknownNavigator), errors.Is(err, routing.ErrNoHierarchy):
		return Response(http.StatusBadRequest, nil), err
	case err != nil:
		return Response(http.StatusInternalServerError, nil), err
	}
	return Response(http.StatusOK, NavigatorResult{Navigator: navigatorRequest.Navigator, Available: routing.Navigators()}), nil
}
