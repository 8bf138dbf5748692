package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"law-ai-api/internal/identity"
)

// IdentityAdmin is the administrative identity capability the admin routes use
type IdentityAdmin interface {
	SetPermanentPassword(ctx context.Context, userPoolID, username, newPassword string) error
	DescribeClientConfiguration(ctx context.Context, userPoolID, clientID string) (*identity.ClientReport, error)
}

// SetPasswordBody is the request body of the password route
type SetPasswordBody struct {
	Password string `json:"password" validate:"required,max=256"`
}

// PasswordUpdatedResponse is returned after a successful password set
type PasswordUpdatedResponse struct {
	Status   string `json:"status"`
	Username string `json:"username"`
}

// AdminHandler forwards identity administration intents
type AdminHandler struct {
	admin      IdentityAdmin
	userPoolID string
	validate   *validator.Validate
}

// NewAdminHandler creates a new admin handler bound to one user pool
func NewAdminHandler(admin IdentityAdmin, userPoolID string) *AdminHandler {
	return &AdminHandler{
		admin:      admin,
		userPoolID: userPoolID,
		validate:   validator.New(),
	}
}

// Routes returns the admin route table entries
func (h *AdminHandler) Routes() []Route {
	return []Route{
		{
			Method:      http.MethodPut,
			Pattern:     "/admin/users/{username}/password",
			Description: "Set a permanent password",
			Handler:     h.SetPassword,
		},
		{
			Method:      http.MethodGet,
			Pattern:     "/admin/clients/{clientId}",
			Description: "Describe an app client configuration",
			Handler:     h.DescribeClient,
		},
	}
}

// SetPassword handles PUT /admin/users/{username}/password
func (h *AdminHandler) SetPassword(ctx context.Context, req *RouteRequest) (*Result, error) {
	var body SetPasswordBody
	if strings.TrimSpace(req.Body) == "" {
		return nil, BadRequest("Request body is required", nil)
	}
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return nil, BadRequest("Request body must be a JSON object", nil)
	}
	if err := h.validate.Struct(&body); err != nil {
		return nil, BadRequest("Request validation failed", err)
	}

	username := req.Params["username"]
	if err := h.admin.SetPermanentPassword(ctx, h.userPoolID, username, body.Password); err != nil {
		return nil, err
	}

	return &Result{
		StatusCode: http.StatusOK,
		Body:       PasswordUpdatedResponse{Status: "updated", Username: username},
	}, nil
}

// DescribeClient handles GET /admin/clients/{clientId}
func (h *AdminHandler) DescribeClient(ctx context.Context, req *RouteRequest) (*Result, error) {
	report, err := h.admin.DescribeClientConfiguration(ctx, h.userPoolID, req.Params["clientId"])
	if err != nil {
		return nil, err
	}

	return &Result{StatusCode: http.StatusOK, Body: report}, nil
}
