package handlers

import (
	"context"
	"sort"
	"strings"

	"law-ai-api/pkg/lambda"
)

// RouteHandler produces the result for a matched route. Errors are turned
// into responses by the dispatcher.
type RouteHandler func(ctx context.Context, req *RouteRequest) (*Result, error)

// Route is one entry of the route table. An empty Method matches any method.
// Pattern segments written as {name} capture path parameters.
type Route struct {
	Method      string
	Pattern     string
	Description string
	Handler     RouteHandler

	segments []string
}

// RouteRequest is the request as seen by a route handler
type RouteRequest struct {
	*lambda.Request

	// RoutePath is the request path with the stage prefix removed
	RoutePath string
	Params    map[string]string
}

// Result is the outcome of a route handler
type Result struct {
	StatusCode int
	Headers    map[string]string
	Body       interface{} // JSON-encoded; nil means an empty body
}

// EntryPoint renders the route for the service description
func (r Route) EntryPoint() string {
	if r.Method == "" {
		return r.Pattern
	}
	return r.Method + " " + r.Pattern
}

func compileRoutes(routes []Route) []Route {
	compiled := make([]Route, 0, len(routes))
	for _, r := range routes {
		r.segments = splitPath(r.Pattern)
		compiled = append(compiled, r)
	}
	return compiled
}

// findRoute returns the first route matching method and path. When the path
// matches but the method does not, the allowed methods are returned instead.
func findRoute(routes []Route, method, path string) (*Route, map[string]string, []string) {
	segments := splitPath(path)
	var allowed []string

	for i := range routes {
		route := &routes[i]
		params, ok := matchSegments(route.segments, segments)
		if !ok {
			continue
		}
		if route.Method == "" || route.Method == method {
			return route, params, nil
		}
		allowed = append(allowed, route.Method)
	}

	if len(allowed) > 0 {
		allowed = append(allowed, "OPTIONS")
		sort.Strings(allowed)
	}
	return nil, nil, allowed
}

func matchSegments(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}

	params := map[string]string{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if path[i] == "" {
				return nil, false
			}
			params[seg[1:len(seg)-1]] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return params, true
}

// splitPath splits a path into segments. One leading and one trailing slash
// are dropped; any other empty segment is kept so it never matches a literal.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(path, "/"), "/")
}

// stripStage removes a recognised stage prefix. A path equal to a prefix is
// the stage root and becomes "/".
func stripStage(path string, prefixes []string) string {
	if path == "" {
		return "/"
	}
	for _, prefix := range prefixes {
		if path == prefix || path == prefix+"/" {
			return "/"
		}
		if strings.HasPrefix(path, prefix+"/") {
			return path[len(prefix):]
		}
	}
	return path
}
