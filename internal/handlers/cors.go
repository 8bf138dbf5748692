package handlers

import "strings"

// Allowed methods and headers advertised on every response
var (
	DefaultAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	DefaultAllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
)

// CorsPolicy is the static CORS configuration of the gateway
type CorsPolicy struct {
	AllowOrigin  string
	AllowMethods []string
	AllowHeaders []string
}

// DefaultCorsPolicy returns the policy used when none is configured
func DefaultCorsPolicy(origin string) CorsPolicy {
	if origin == "" {
		origin = "*"
	}
	return CorsPolicy{
		AllowOrigin:  origin,
		AllowMethods: append([]string(nil), DefaultAllowMethods...),
		AllowHeaders: append([]string(nil), DefaultAllowHeaders...),
	}
}

// Headers renders the policy as response headers
func (p CorsPolicy) Headers() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  p.AllowOrigin,
		"Access-Control-Allow-Methods": strings.Join(p.AllowMethods, ", "),
		"Access-Control-Allow-Headers": strings.Join(p.AllowHeaders, ", "),
	}
}
