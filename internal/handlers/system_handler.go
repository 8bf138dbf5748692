package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// ServiceDescription is the body of the root endpoint
type ServiceDescription struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// SystemHandler serves the built-in health and root routes
type SystemHandler struct {
	dispatcher *Dispatcher
}

// Health reports the service as healthy with the time of the response
func (h *SystemHandler) Health(ctx context.Context, req *RouteRequest) (*Result, error) {
	return &Result{
		StatusCode: http.StatusOK,
		Body: HealthResponse{
			Status:    "healthy",
			Service:   h.dispatcher.serviceName,
			Version:   h.dispatcher.version,
			Timestamp: h.dispatcher.now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Root describes the service and lists its entry points
func (h *SystemHandler) Root(ctx context.Context, req *RouteRequest) (*Result, error) {
	return &Result{
		StatusCode: http.StatusOK,
		Body: ServiceDescription{
			Service:   h.dispatcher.serviceName,
			Version:   h.dispatcher.version,
			Message:   "Law AI API is running",
			Endpoints: h.dispatcher.endpoints,
		},
	}, nil
}
