// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	carts  *cart.Manager
	config *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Manager, cfg *config.Config) *CartHandler {
	return &CartHandler{
		carts:  carts,
		config: cfg,
	}
}

// AddItemRequest represents an add to cart request. Stock and price come
// from the catalog at add-time; the store treats them as the ceiling and
// unit price for this line.
type AddItemRequest struct {
	ID             string `json:"id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	ImageRef       string `json:"image_ref"`
	Slug           string `json:"slug"`
	UnitPrice      int64  `json:"unit_price" binding:"min=0"`
	AvailableStock int    `json:"available_stock" binding:"min=0"`
}

// UpdateQuantityRequest represents an update quantity request. Zero and
// negative values remove the item.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// cartResponse represents the cart with derived totals
type cartResponse struct {
	Items  []cart.LineItem `json:"items"`
	IsOpen bool            `json:"is_open"`
	Totals cart.Totals     `json:"totals"`
}

func newCartResponse(state cart.State) cartResponse {
	return cartResponse{
		Items:  state.Items,
		IsOpen: state.IsOpen,
		Totals: state.Summary(),
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    newCartResponse(store.Snapshot()),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item := cart.LineItem{
		ID:             req.ID,
		Name:           req.Name,
		ImageRef:       req.ImageRef,
		Slug:           req.Slug,
		UnitPrice:      req.UnitPrice,
		AvailableStock: req.AvailableStock,
	}

	if err := store.AddItem(c.Request.Context(), item); err != nil {
		if errors.Is(err, cart.ErrStockExhausted) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Item is out of stock",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    newCartResponse(store.Snapshot()),
	})
}

// UpdateQuantity handles PUT /cart/items/:id
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := store.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    newCartResponse(store.Snapshot()),
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		return
	}

	if err := store.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove item from cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    newCartResponse(store.Snapshot()),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		return
	}

	if err := store.ClearCart(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// ToggleCart handles POST /cart/toggle
func (h *CartHandler) ToggleCart(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		return
	}

	if err := store.ToggleCart(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to toggle cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart visibility toggled",
		"data":    newCartResponse(store.Snapshot()),
	})
}

// CloseCart handles POST /cart/close
func (h *CartHandler) CloseCart(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		return
	}

	if err := store.CloseCart(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to close cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart closed",
	})
}

// GetCartCount handles GET /cart/count, the icon badge reader
func (h *CartHandler) GetCartCount(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": store.Snapshot().ItemCount(),
		},
	})
}

// store resolves the cart store for the request's shopper session,
// responding with an error itself when that fails
func (h *CartHandler) store(c *gin.Context) (*cart.Store, error) {
	sessionID := GetOrCreateSessionID(c, h.config)

	store, err := h.carts.Store(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return nil, err
	}
	return store, nil
}

// GetOrCreateSessionID gets the shopper session ID from cookie or creates one
func GetOrCreateSessionID(c *gin.Context, cfg *config.Config) string {
	sessionID, err := c.Cookie(cfg.Session.CookieName)
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		c.SetCookie(cfg.Session.CookieName, sessionID, int(cfg.Session.TTL.Seconds()), "/", "", false, true)
	}
	return sessionID
}
