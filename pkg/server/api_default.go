package server

import (
	"encoding/json"
	"net/http"
)

// DefaultApiController binds http requests to an api service and writes the service results to the http response
type DefaultApiController struct {
	service      DefaultApiServicer
	errorHandler ErrorHandler
}

// DefaultApiOption for how the controller is set up.
type DefaultApiOption func(*DefaultApiController)

// WithDefaultApiErrorHandler inject ErrorHandler into controller
func WithDefaultApiErrorHandler(h ErrorHandler) DefaultApiOption {
	return func(c *DefaultApiController) {
		c.errorHandler = h
	}
}

// NewDefaultApiController creates a default api controller
func NewDefaultApiController(s DefaultApiServicer, opts ...DefaultApiOption) Router {
	controller := &DefaultApiController{
		service:      s,
		errorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// Routes returns all of the api route for the DefaultApiController
func (c *DefaultApiController) Routes() Routes {
	return Routes{
		{"ComputeRoute", http.MethodPost, "/routes", c.ComputeRoute},
		{"ComputeRouteGeoJSON", http.MethodPost, "/routes/geojson", c.ComputeRouteGeoJSON},
		{"GetNodes", http.MethodGet, "/nodes", c.GetNodes},
		{"GetSearchSpace", http.MethodGet, "/searchSpace", c.GetSearchSpace},
		{"GetNavigator", http.MethodGet, "/navigator", c.GetNavigator},
		{"SetNavigator", http.MethodPost, "/navigator", c.SetNavigator},
	}
}

// ComputeRoute - Compute a new route
func (c *DefaultApiController) ComputeRoute(w http.ResponseWriter, r *http.Request) {
	routeRequestParam, ok := c.decodeRouteRequest(w, r)
	if !ok {
		return
	}
	result, err := c.service.ComputeRoute(r.Context(), routeRequestParam)
	c.respond(w, r, http.MethodPost, result, err)
}

// ComputeRouteGeoJSON - Compute a new route as GeoJSON feature
func (c *DefaultApiController) ComputeRouteGeoJSON(w http.ResponseWriter, r *http.Request) {
	routeRequestParam, ok := c.decodeRouteRequest(w, r)
	if !ok {
		return
	}
	result, err := c.service.ComputeRouteGeoJSON(r.Context(), routeRequestParam)
	c.respond(w, r, http.MethodPost, result, err)
}

func (c *DefaultApiController) GetNodes(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.GetNodes(r.Context())
	c.respond(w, r, http.MethodGet, result, err)
}

func (c *DefaultApiController) GetSearchSpace(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.GetSearchSpace(r.Context())
	c.respond(w, r, http.MethodGet, result, err)
}

func (c *DefaultApiController) GetNavigator(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.GetNavigator(r.Context())
	c.respond(w, r, http.MethodGet, result, err)
}

func (c *DefaultApiController) SetNavigator(w http.ResponseWriter, r *http.Request) {
	navigatorRequestParam := NavigatorRequest{}
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(&navigatorRequestParam); err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	if err := AssertNavigatorRequestRequired(navigatorRequestParam); err != nil {
		c.errorHandler(w, r, err, nil)
		return
	}
	result, err := c.service.SetNavigator(r.Context(), navigatorRequestParam)
	c.respond(w, r, http.MethodPost, result, err)
}

func (c *DefaultApiController) decodeRouteRequest(w http.ResponseWriter, r *http.Request) (RouteRequest, bool) {
	routeRequestParam := RouteRequest{}
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(&routeRequestParam); err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return routeRequestParam, false
	}
	if err := AssertRouteRequestRequired(routeRequestParam); err != nil {
		c.errorHandler(w, r, err, nil)
		return routeRequestParam, false
	}
	return routeRequestParam, true
}

func (c *DefaultApiController) respond(w http.ResponseWriter, r *http.Request, method string, result ImplResponse, err error) {
	// If an error occurred, encode the error with the status code
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	// If no error, encode the body and the result code
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", method)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	EncodeJSONResponse(result.Body, &result.Code, w)
}
