package auth

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/delivery/http/controllers/middleware"
	"CourseMarket/internal/delivery/http/controllers/response"
	"CourseMarket/internal/models"
	"CourseMarket/pkg/logger"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthService interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	LoginUser(ctx context.Context, username, password string) (accessToken, refreshToken string, err error)
	User(ctx context.Context, id uuid.UUID) (*models.User, error)
	RefreshTokens(ctx context.Context, token string) (*models.TokenPair, error)
}

type BalanceService interface {
	Balance(ctx context.Context, userID uuid.UUID) (*models.Balance, error)
}

type AuthHandler struct {
	AuthService AuthService
	balances    BalanceService
	log         logger.Log
}

func NewAuthHandler(l logger.Log, auth AuthService, balances BalanceService) *AuthHandler {
	return &AuthHandler{
		AuthService: auth,
		balances:    balances,
		log:         l,
	}
}

type meResponse struct {
	UserId   string   `json:"userId"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     []string `json:"role"`
}

func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	user, err := h.AuthService.User(c.Request.Context(), principal.UserID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, meResponse{
		UserId:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Roles,
	})
}

type balanceResponse struct {
	UserID    string       `json:"user_id"`
	Balance   models.Money `json:"balance"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (h *AuthHandler) Balance(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	balance, err := h.balances.Balance(c.Request.Context(), principal.UserID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, balanceResponse{
		UserID:    balance.UserID.String(),
		Balance:   balance.Amount,
		UpdatedAt: balance.UpdatedAt,
	})
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// Register always creates a client; admins are provisioned from config.
func (h *AuthHandler) Register(c *gin.Context) {
	var input registerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.AuthService.CreateUser(c.Request.Context(), models.User{
		Username: input.Username,
		Password: input.Password,
		Email:    input.Email,
		Roles:    []string{models.ClientRole},
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration success", "user_id": user.ID})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	accessToken, refreshToken, err := h.AuthService.LoginUser(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) || errors.Is(err, app_errors.ErrIncorrectPassword) {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid username or password")
			return
		}
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

type tokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var input tokenRefreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokenPair, err := h.AuthService.RefreshTokens(c.Request.Context(), input.RefreshToken)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, err.Error())
			return
		}
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  tokenPair.AccessToken.Raw,
		RefreshToken: tokenPair.RefreshToken.Raw,
	})
}
