// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkouts *checkout.Manager
	config    *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkouts *checkout.Manager, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkouts: checkouts,
		config:    cfg,
	}
}

// Begin handles POST /checkout
func (h *CheckoutHandler) Begin(c *gin.Context) {
	orchestrator, err := h.orchestrator(c)
	if err != nil {
		return
	}

	session, err := orchestrator.Begin(c.Request.Context())
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Cannot start checkout with an empty cart",
			})
			return
		}
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout started",
		"data":    session,
	})
}

// Get handles GET /checkout
func (h *CheckoutHandler) Get(c *gin.Context) {
	orchestrator, err := h.orchestrator(c)
	if err != nil {
		return
	}

	session, err := orchestrator.Current()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No checkout in progress",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout session retrieved successfully",
		"data":    session,
	})
}

// SubmitShipping handles POST /checkout/shipping
func (h *CheckoutHandler) SubmitShipping(c *gin.Context) {
	orchestrator, err := h.orchestrator(c)
	if err != nil {
		return
	}

	var form checkout.ShippingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := orchestrator.SubmitShipping(c.Request.Context(), form); err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	session, _ := orchestrator.Current()
	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping information saved",
		"data":    session,
	})
}

// SubmitPayment handles POST /checkout/payment
func (h *CheckoutHandler) SubmitPayment(c *gin.Context) {
	orchestrator, err := h.orchestrator(c)
	if err != nil {
		return
	}

	var form checkout.PaymentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := orchestrator.SubmitPayment(c.Request.Context(), form); err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	session, _ := orchestrator.Current()
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment information saved",
		"data":    session,
	})
}

// Confirm handles POST /checkout/confirm: the final, atomic submission
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	orchestrator, err := h.orchestrator(c)
	if err != nil {
		return
	}

	token := middleware.GetSessionToken(c)
	session, err := orchestrator.Confirm(c.Request.Context(), token)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order placed successfully",
		"data":    session,
	})
}

// Cancel handles DELETE /checkout
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	orchestrator, err := h.orchestrator(c)
	if err != nil {
		return
	}

	if err := orchestrator.Cancel(c.Request.Context()); err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout cancelled",
	})
}

// Close handles POST /checkout/close after a confirmed order
func (h *CheckoutHandler) Close(c *gin.Context) {
	orchestrator, err := h.orchestrator(c)
	if err != nil {
		return
	}

	if err := orchestrator.CloseConfirmed(c.Request.Context()); err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout closed",
	})
}

// renderCheckoutError maps domain errors onto HTTP responses
func (h *CheckoutHandler) renderCheckoutError(c *gin.Context, err error) {
	var validationErr *checkout.ValidationError
	var submissionErr *order.SubmissionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
	case errors.Is(err, checkout.ErrPaymentProofMissing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
			"code":  "payment_proof_missing",
		})
	case errors.Is(err, checkout.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    err.Error(),
			"redirect": "/sign-in",
		})
	case errors.Is(err, checkout.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, checkout.ErrNoSession):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No checkout in progress",
		})
	case errors.Is(err, checkout.ErrInvalidStep):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	case errors.As(err, &submissionErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   submissionErr.Message,
			"details": submissionErr.Details,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Checkout operation failed",
		})
	}
}

// orchestrator resolves the checkout orchestrator for the request's
// shopper session, responding with an error itself when that fails
func (h *CheckoutHandler) orchestrator(c *gin.Context) (*checkout.Orchestrator, error) {
	sessionID := GetOrCreateSessionID(c, h.config)

	orchestrator, err := h.checkouts.Orchestrator(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve checkout session",
		})
		return nil, err
	}
	return orchestrator, nil
}
