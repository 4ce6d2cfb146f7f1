package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tably-system/internal/cart"
	"tably-system/internal/gateway/middleware"
	"tably-system/internal/session"
)

type SessionHTTPHandler struct {
	sessions *session.Manager
	watches  *WatchRegistry
}

func NewSessionHTTPHandler(sessions *session.Manager, watches *WatchRegistry) *SessionHTTPHandler {
	return &SessionHTTPHandler{sessions: sessions, watches: watches}
}

type AddCartLineRequest struct {
	MenuItemID          string             `json:"menu_item_id" binding:"required"`
	Name                string             `json:"menu_item_name"`
	Quantity            int                `json:"quantity" binding:"required,min=1"`
	UnitPrice           float64            `json:"unit_price" binding:"min=0"`
	VariantID           string             `json:"variant_id,omitempty"`
	VariantName         string             `json:"variant_name,omitempty"`
	SpecialInstructions string             `json:"special_instructions,omitempty"`
	Addons              []CartAddonRequest `json:"addons,omitempty" binding:"omitempty,dive"`
}

type CartAddonRequest struct {
	AddonID  string  `json:"addon_id" binding:"required"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Price    float64 `json:"price" binding:"min=0"`
}

type UpdateCartLineRequest struct {
	Quantity            *int    `json:"quantity,omitempty"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
}

func (h *SessionHTTPHandler) store(c *gin.Context) (*session.Store, bool) {
	store, ok := h.sessions.Get(middleware.SessionID(c))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found, scan again"))
		return nil, false
	}
	return store, true
}

func cartPayload(state session.State) gin.H {
	return gin.H{
		"cart":     state.Cart,
		"subtotal": cart.Subtotal(state.Cart),
	}
}

// --- Session ---

func (h *SessionHTTPHandler) GetState(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, successResponse("Session retrieved successfully", store.State()))
}

func (h *SessionHTTPHandler) Reset(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	sessionID := middleware.SessionID(c)
	// an abandoned session must not keep polling its order
	h.watches.Stop(sessionID)
	store.Reset()
	h.sessions.Remove(sessionID)
	c.JSON(http.StatusOK, successResponse("Session reset", nil))
}

// --- Cart ---

func (h *SessionHTTPHandler) AddCartLine(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	line := cart.Line{
		MenuItemID:          req.MenuItemID,
		Name:                req.Name,
		Quantity:            req.Quantity,
		UnitPrice:           req.UnitPrice,
		VariantID:           req.VariantID,
		VariantName:         req.VariantName,
		SpecialInstructions: req.SpecialInstructions,
	}
	for _, addon := range req.Addons {
		line.Addons = append(line.Addons, cart.Addon{
			AddonID:  addon.AddonID,
			Name:     addon.Name,
			Quantity: addon.Quantity,
			Price:    addon.Price,
		})
	}

	state := store.AddToCart(line)
	c.JSON(http.StatusOK, successResponse("Item added to cart", cartPayload(state)))
}

func (h *SessionHTTPHandler) UpdateCartLine(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid cart line index"))
		return
	}

	var req UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	state := store.UpdateCartLine(index, req.Quantity, req.SpecialInstructions)
	c.JSON(http.StatusOK, successResponse("Cart updated", cartPayload(state)))
}

func (h *SessionHTTPHandler) RemoveCartLine(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid cart line index"))
		return
	}

	state := store.RemoveCartLine(index)
	c.JSON(http.StatusOK, successResponse("Item removed from cart", cartPayload(state)))
}

func (h *SessionHTTPHandler) ClearCart(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	state := store.ClearCart()
	c.JSON(http.StatusOK, successResponse("Cart cleared", cartPayload(state)))
}

// --- Notifications ---

func (h *SessionHTTPHandler) ListNotifications(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, successResponse("Notifications retrieved successfully", store.State().Notifications))
}

func (h *SessionHTTPHandler) MarkNotificationsRead(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	state := store.MarkAllNotificationsRead()
	c.JSON(http.StatusOK, successResponse("Notifications marked as read", state.Notifications))
}
