package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"law-ai-api/internal/middleware"
	"law-ai-api/pkg/lambda"
)

// GinHandler serves every request of a gin engine through the dispatcher, so
// the local server and the Lambda function share one routing path.
func GinHandler(d *Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := make(map[string]string, len(c.Request.Header))
		for k, v := range c.Request.Header {
			headers[k] = strings.Join(v, ",")
		}
		if requestID := c.GetString(middleware.RequestIDKey); requestID != "" {
			headers[RequestIDHeader] = requestID
		}

		query := make(map[string]string)
		for k, v := range c.Request.URL.Query() {
			query[k] = strings.Join(v, ",")
		}

		req := &lambda.Request{
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			Headers:     headers,
			QueryParams: query,
		}

		var resp *lambda.Response
		body, err := readBody(c.Request)
		if err != nil {
			resp = d.RenderError(req, BadRequest("Failed to read request body", err))
		} else {
			req.Body = body
			resp = d.Handle(c.Request.Context(), req)
		}

		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		c.Data(resp.StatusCode, resp.Headers["Content-Type"], []byte(resp.Body))
	}
}

func readBody(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
