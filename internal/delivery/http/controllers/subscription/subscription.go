package subscription

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/delivery/http/controllers/middleware"
	"CourseMarket/internal/delivery/http/controllers/response"
	"CourseMarket/internal/models"
	"CourseMarket/internal/service/access"
	"CourseMarket/pkg/logger"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchaseService interface {
	Purchase(ctx context.Context, userID, courseID uuid.UUID) (*models.Subscription, error)
}

type RegistryService interface {
	SubscriptionByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	SubscriptionsByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
}

type AccessChecker interface {
	CanView(ctx context.Context, p access.Principal, resource any) (bool, error)
}

type SubscriptionHandler struct {
	log      logger.Log
	purchase PurchaseService
	registry RegistryService
	access   AccessChecker
}

func NewSubscriptionHandler(log logger.Log, p PurchaseService, r RegistryService, a AccessChecker) *SubscriptionHandler {
	return &SubscriptionHandler{
		log:      log,
		purchase: p,
		registry: r,
		access:   a,
	}
}

type subscriptionResponse struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	User           uuid.UUID `json:"user"`
	Course         uuid.UUID `json:"course"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

func toResponse(s models.Subscription) subscriptionResponse {
	return subscriptionResponse{
		SubscriptionID: s.ID,
		User:           s.UserID,
		Course:         s.CourseID,
		Active:         s.Active,
		CreatedAt:      s.CreatedAt,
	}
}

// Purchase debits the caller's balance by the course price and subscribes them.
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	courseID, ok := response.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	sub, err := h.purchase.Purchase(c.Request.Context(), principal.UserID, courseID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(*sub))
}

func (h *SubscriptionHandler) MySubscriptions(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	subs, err := h.registry.SubscriptionsByUser(c.Request.Context(), principal.UserID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	out := make([]subscriptionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, toResponse(s))
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": out})
}

func (h *SubscriptionHandler) SubscriptionByID(c *gin.Context) {
	id, ok := response.UUIDParam(c, "subscription_id")
	if !ok {
		return
	}
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	sub, err := h.registry.SubscriptionByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	allowed, err := h.access.CanView(c.Request.Context(), principal, sub)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if !allowed {
		response.Error(c, h.log, app_errors.ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, toResponse(*sub))
}
