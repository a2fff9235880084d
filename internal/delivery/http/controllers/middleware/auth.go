package middleware

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/delivery/http/controllers/response"
	"CourseMarket/internal/models"
	"CourseMarket/internal/service/access"
	"CourseMarket/pkg/logger"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClientIDCtx    = "client_id"
	ClientRolesCtx = "client_roles"
)

type AuthService interface {
	ParseToken(ctx context.Context, token string) (*jwt.Token, error)
	IsAccessToken(ctx context.Context, token *jwt.Token) bool
	AccessClaims(ctx context.Context, token string) (userID uuid.UUID, roles []string, err error)
	User(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthMiddlewareProvider struct {
	log     logger.Log
	service AuthService
}

func NewAuthMiddlewareProvider(log logger.Log, s AuthService) *AuthMiddlewareProvider {
	return &AuthMiddlewareProvider{
		log:     log,
		service: s,
	}
}

func (h *AuthMiddlewareProvider) AuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication credentials were not provided")
		return
	}

	parsedToken, err := h.service.ParseToken(c.Request.Context(), token)
	if err != nil {
		h.log.Debug("failed to parse token", "error", err.Error())
		if errors.Is(err, app_errors.ErrTokenExpired) {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, app_errors.ErrTokenExpired.Error())
			return
		}
		response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "cant parse token")
		return
	}
	if !h.service.IsAccessToken(c.Request.Context(), parsedToken) {
		response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "not access token")
		return
	}

	userID, _, err := h.service.AccessClaims(c.Request.Context(), token)
	if err != nil {
		response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token claims")
		return
	}
	user, err := h.service.User(c.Request.Context(), userID)
	if err != nil {
		response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found")
		return
	}

	// roles come from the stored user so a revoked role takes effect before the token expires
	c.Set(ClientIDCtx, user.ID)
	c.Set(ClientRolesCtx, user.Roles)
	c.Next()
}

// Principal returns the authenticated caller set by AuthMiddleware.
func Principal(c *gin.Context) (access.Principal, bool) {
	raw, ok := c.Get(ClientIDCtx)
	if !ok {
		return access.Principal{}, false
	}
	id, ok := raw.(uuid.UUID)
	if !ok {
		return access.Principal{}, false
	}
	roles, _ := c.Get(ClientRolesCtx)
	list, _ := roles.([]string)
	return access.Principal{UserID: id, Roles: list}, true
}

// MustPrincipal aborts with 401 when no principal is set.
func MustPrincipal(c *gin.Context) (access.Principal, bool) {
	p, ok := Principal(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not authenticated")
	}
	return p, ok
}
