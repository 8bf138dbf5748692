package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"law-ai-api/pkg/lambda"
)

// RequestIDHeader carries the request ID in and out of the gateway
const RequestIDHeader = "X-Request-ID"

const genericErrorMessage = "An unexpected error occurred"

// DispatcherConfig is the static configuration of a Dispatcher
type DispatcherConfig struct {
	ServiceName   string
	Version       string
	Cors          CorsPolicy
	StagePrefixes []string

	// Routes are declared after the built-in health and root routes
	Routes []Route
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the logger used for request and fault logging
func WithLogger(logger *logrus.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithSecrets registers values that must never appear in a response body
func WithSecrets(secrets ...string) Option {
	return func(d *Dispatcher) {
		for _, s := range secrets {
			if s != "" {
				d.secrets = append(d.secrets, s)
			}
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// Dispatcher classifies inbound requests and produces exactly one response
// per call. It holds no mutable state after construction.
type Dispatcher struct {
	serviceName   string
	version       string
	corsHeaders   map[string]string
	stagePrefixes []string
	routes        []Route
	endpoints     []string

	logger  *logrus.Logger
	secrets []string
	now     func() time.Time
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(config DispatcherConfig, opts ...Option) *Dispatcher {
	cors := config.Cors
	if cors.AllowOrigin == "" {
		cors.AllowOrigin = "*"
	}
	if len(cors.AllowMethods) == 0 {
		cors.AllowMethods = DefaultAllowMethods
	}
	if len(cors.AllowHeaders) == 0 {
		cors.AllowHeaders = DefaultAllowHeaders
	}

	d := &Dispatcher{
		serviceName:   config.ServiceName,
		version:       config.Version,
		corsHeaders:   cors.Headers(),
		stagePrefixes: append([]string(nil), config.StagePrefixes...),
		logger:        logrus.StandardLogger(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	system := &SystemHandler{dispatcher: d}
	routes := []Route{
		{Pattern: "/health", Description: "Health check", Handler: system.Health},
		{Pattern: "/", Description: "Service description", Handler: system.Root},
	}
	routes = append(routes, config.Routes...)
	d.routes = compileRoutes(routes)

	for _, r := range d.routes {
		d.endpoints = append(d.endpoints, r.EntryPoint())
	}

	return d
}

// Handle routes a single request. It never panics and always returns a fully
// populated response carrying the CORS headers.
func (d *Dispatcher) Handle(ctx context.Context, req *lambda.Request) (resp *lambda.Response) {
	start := d.now()
	if req == nil {
		req = &lambda.Request{Path: "/"}
	}

	requestID := req.Header(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	log := d.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     req.Method,
		"path":       req.Path,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logrus.Fields{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic while handling request")
			resp = d.render(internalError(), requestID)
		}
		d.logCompleted(log, resp, start)
	}()

	// Preflight requests carry no path semantics here
	if req.Method == http.MethodOptions {
		return d.render(&Result{StatusCode: http.StatusOK}, requestID)
	}

	result, err := d.dispatch(ctx, req)
	if err != nil {
		var fault bool
		result, fault = d.errorResult(err)
		if fault {
			log.WithError(err).Error("Unhandled error while handling request")
		} else {
			log.WithError(err).Warn("Request failed")
		}
	}

	return d.render(result, requestID)
}

// RenderError produces the response for a failure that happened before a
// request could be routed, such as an undecodable event.
func (d *Dispatcher) RenderError(req *lambda.Request, err error) *lambda.Response {
	requestID := req.Header(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	result, fault := d.errorResult(err)
	entry := d.logger.WithField("request_id", requestID).WithError(err)
	if fault {
		entry.Error("Request could not be dispatched")
	} else {
		entry.Warn("Request could not be dispatched")
	}

	return d.render(result, requestID)
}

func (d *Dispatcher) dispatch(ctx context.Context, req *lambda.Request) (*Result, error) {
	prefixes := d.stagePrefixes
	if req.Stage != "" {
		prefixes = append([]string{"/" + strings.Trim(req.Stage, "/")}, prefixes...)
	}
	routePath := stripStage(req.Path, prefixes)

	route, params, allowed := findRoute(d.routes, req.Method, routePath)
	if route == nil {
		if len(allowed) > 0 {
			return &Result{
				StatusCode: http.StatusMethodNotAllowed,
				Headers:    map[string]string{"Allow": strings.Join(allowed, ", ")},
				Body: ErrorResponse{
					Error:   "Method Not Allowed",
					Message: fmt.Sprintf("Method %s is not allowed on %s", req.Method, req.Path),
				},
			}, nil
		}
		return &Result{
			StatusCode: http.StatusNotFound,
			Body: NotFoundResponse{
				Error:   "Not Found",
				Message: "Route not implemented",
				Path:    req.Path,
				Method:  req.Method,
			},
		}, nil
	}

	result, err := route.Handler(ctx, &RouteRequest{
		Request:   req,
		RoutePath: routePath,
		Params:    params,
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("route %s returned no result", route.EntryPoint())
	}
	return result, nil
}

// render serialises a result. Serialisation failures fall back to a static
// 500 body so the response is always complete.
func (d *Dispatcher) render(result *Result, requestID string) *lambda.Response {
	headers := map[string]string{
		"Content-Type":  "application/json",
		RequestIDHeader: requestID,
	}
	for k, v := range result.Headers {
		headers[k] = v
	}
	for k, v := range d.corsHeaders {
		headers[k] = v
	}

	body := ""
	if result.Body != nil {
		data, err := json.Marshal(result.Body)
		if err != nil {
			d.logger.WithError(err).WithField("request_id", requestID).Error("Failed to encode response body")
			return &lambda.Response{
				StatusCode: http.StatusInternalServerError,
				Headers:    headers,
				Body:       `{"error":"Internal server error","message":"` + genericErrorMessage + `"}`,
			}
		}
		body = string(data)
	}

	return &lambda.Response{
		StatusCode: result.StatusCode,
		Headers:    headers,
		Body:       body,
	}
}

// safeMessage returns detail unless it is empty or contains secret material
func (d *Dispatcher) safeMessage(detail string) string {
	if detail == "" {
		return genericErrorMessage
	}
	for _, secret := range d.secrets {
		if strings.Contains(detail, secret) {
			return genericErrorMessage
		}
	}
	return detail
}

func (d *Dispatcher) logCompleted(log *logrus.Entry, resp *lambda.Response, start time.Time) {
	if resp == nil {
		return
	}

	entry := log.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"latency_ms":  float64(d.now().Sub(start).Nanoseconds()) / 1000000,
	})

	switch {
	case resp.StatusCode >= 500:
		entry.Error("Server error")
	case resp.StatusCode >= 400:
		entry.Warn("Client error")
	default:
		entry.Info("Request completed")
	}
}
