package lambda

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// EventFormat names the event convention a deployment receives
type EventFormat string

const (
	// EventFormatREST is the direct-invocation / REST API shape (path, httpMethod)
	EventFormatREST EventFormat = "rest"
	// EventFormatHTTP is the HTTP API / function URL shape (rawPath, requestContext.http.method)
	EventFormatHTTP EventFormat = "http"
	// EventFormatAuto accepts whichever of the two field sets is present
	EventFormatAuto EventFormat = "auto"
)

// ParseEventFormat validates a configured event format
func ParseEventFormat(s string) (EventFormat, error) {
	switch f := EventFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case EventFormatREST, EventFormatHTTP, EventFormatAuto:
		return f, nil
	case "":
		return EventFormatAuto, nil
	default:
		return "", fmt.Errorf("unsupported event format %q: must be one of rest, http, auto", s)
	}
}

// FromProxyRequest converts a REST API / direct invocation event
func FromProxyRequest(event events.APIGatewayProxyRequest) (*Request, error) {
	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:      event.HTTPMethod,
		Path:        normalizePath(event.Path),
		Headers:     copyHeaders(event.Headers),
		QueryParams: event.QueryStringParameters,
		Body:        body,
		Stage:       event.RequestContext.Stage,
	}, nil
}

// FromHTTPRequest converts an HTTP API (payload v2) event
func FromHTTPRequest(event events.APIGatewayV2HTTPRequest) (*Request, error) {
	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	path := event.RawPath
	if path == "" {
		path = event.RequestContext.HTTP.Path
	}

	return &Request{
		Method:      event.RequestContext.HTTP.Method,
		Path:        normalizePath(path),
		Headers:     copyHeaders(event.Headers),
		QueryParams: event.QueryStringParameters,
		Body:        body,
		Stage:       stageName(event.RequestContext.Stage),
	}, nil
}

// rawEvent is the union of the two event conventions
type rawEvent struct {
	HTTPMethod            string            `json:"httpMethod"`
	Path                  string            `json:"path"`
	RawPath               string            `json:"rawPath"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	Body                  string            `json:"body"`
	IsBase64Encoded       bool              `json:"isBase64Encoded"`
	RequestContext        struct {
		Stage string `json:"stage"`
		HTTP  struct {
			Method string `json:"method"`
			Path   string `json:"path"`
		} `json:"http"`
	} `json:"requestContext"`
}

// DecodeEvent converts a raw Lambda payload using the configured convention.
// Only the fields of the selected convention are consulted; in auto mode the
// direct-invocation fields win when both are present.
func DecodeEvent(payload []byte, format EventFormat) (*Request, error) {
	switch format {
	case EventFormatREST:
		var event events.APIGatewayProxyRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("failed to decode REST event: %w", err)
		}
		return FromProxyRequest(event)
	case EventFormatHTTP:
		var event events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("failed to decode HTTP event: %w", err)
		}
		return FromHTTPRequest(event)
	}

	var event rawEvent
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
	}

	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	method := firstNonEmpty(event.HTTPMethod, event.RequestContext.HTTP.Method)
	path := firstNonEmpty(event.Path, event.RawPath, event.RequestContext.HTTP.Path)

	return &Request{
		Method:      method,
		Path:        normalizePath(path),
		Headers:     copyHeaders(event.Headers),
		QueryParams: event.QueryStringParameters,
		Body:        body,
		Stage:       stageName(event.RequestContext.Stage),
	}, nil
}

// ToProxyResponse converts a response into the REST API shape.
// HTTP APIs accept the same shape, so it is used for every format.
func ToProxyResponse(resp *Response) events.APIGatewayProxyResponse {
	if resp == nil {
		return events.APIGatewayProxyResponse{StatusCode: 500, Headers: map[string]string{}}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
}

// ToHTTPResponse converts a response into the HTTP API (payload v2) shape
func ToHTTPResponse(resp *Response) events.APIGatewayV2HTTPResponse {
	proxy := ToProxyResponse(resp)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: proxy.StatusCode,
		Headers:    proxy.Headers,
		Body:       proxy.Body,
	}
}

func decodeBody(body string, isBase64 bool) (string, error) {
	if !isBase64 || body == "" {
		return body, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 body: %w", err)
	}
	return string(decoded), nil
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// stageName drops the HTTP API placeholder stage
func stageName(stage string) string {
	if stage == "$default" {
		return ""
	}
	return stage
}

func copyHeaders(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
