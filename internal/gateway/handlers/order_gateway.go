package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"tably-system/internal/gateway/middleware"
	"tably-system/internal/order"
	"tably-system/internal/session"
)

type historyLister interface {
	ListBySession(ctx context.Context, sessionID string) ([]session.Order, error)
}

// WatchRegistry holds the active order watch per guest session. It is
// shared with the session handler so a session reset stops the watch
// instead of orphaning a polling goroutine.
type WatchRegistry struct {
	mu      sync.Mutex
	watches map[string]*order.Watch
}

func NewWatchRegistry() *WatchRegistry {
	return &WatchRegistry{watches: make(map[string]*order.Watch)}
}

// Replace installs the session's watch, stopping any previous one.
func (r *WatchRegistry) Replace(sessionID string, watch *order.Watch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.watches[sessionID]; ok {
		existing.Stop()
	}
	r.watches[sessionID] = watch
}

// Stop halts and forgets the session's watch, reporting whether one
// was active.
func (r *WatchRegistry) Stop(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	watch, ok := r.watches[sessionID]
	if ok {
		watch.Stop()
		delete(r.watches, sessionID)
	}
	return ok
}

type OrderHTTPHandler struct {
	orders   *order.Service
	tracker  *order.Tracker
	history  historyLister
	sessions *session.Manager
	watches  *WatchRegistry
}

func NewOrderHTTPHandler(orders *order.Service, tracker *order.Tracker, history historyLister, sessions *session.Manager, watches *WatchRegistry) *OrderHTTPHandler {
	return &OrderHTTPHandler{
		orders:   orders,
		tracker:  tracker,
		history:  history,
		sessions: sessions,
		watches:  watches,
	}
}

type SubmitOrderRequest struct {
	Name                string `json:"name,omitempty"`
	Phone               string `json:"phone,omitempty"`
	Email               string `json:"email,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

func (h *OrderHTTPHandler) store(c *gin.Context) (*session.Store, bool) {
	store, ok := h.sessions.Get(middleware.SessionID(c))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found, scan again"))
		return nil, false
	}
	return store, true
}

func (h *OrderHTTPHandler) Submit(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	contact := order.Contact{Name: req.Name, Phone: req.Phone, Email: req.Email}
	placed, err := h.orders.Submit(c.Request.Context(), store, contact, req.SpecialInstructions)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart),
			errors.Is(err, order.ErrNoOutlet),
			errors.Is(err, order.ErrPhoneRequired),
			errors.Is(err, order.ErrNameRequired):
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		default:
			status, body := upstreamStatus(err, "Order service error")
			c.JSON(status, body)
		}
		return
	}

	c.JSON(http.StatusCreated, successResponse("Order placed successfully", placed))
}

func (h *OrderHTTPHandler) GetOrder(c *gin.Context) {
	if _, ok := h.store(c); !ok {
		return
	}

	detail, err := h.orders.Fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, body := upstreamStatus(err, "Order service error")
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, successResponse("Order retrieved successfully", detail))
}

// StartTracking begins polling the order's status into the guest's
// session. One watch per session: starting a new one stops the old.
func (h *OrderHTTPHandler) StartTracking(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	orderID := c.Param("id")

	// the watch outlives this request
	h.watches.Replace(middleware.SessionID(c), h.tracker.Track(context.Background(), orderID, store))

	c.JSON(http.StatusAccepted, successResponse("Order tracking started", gin.H{"order_id": orderID}))
}

func (h *OrderHTTPHandler) StopTracking(c *gin.Context) {
	if _, ok := h.store(c); !ok {
		return
	}

	if !h.watches.Stop(middleware.SessionID(c)) {
		c.JSON(http.StatusNotFound, errorResponse("No active order tracking"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Order tracking stopped", nil))
}

func (h *OrderHTTPHandler) ListHistory(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("Order history is currently unavailable"))
		return
	}

	orders, err := h.history.ListBySession(c.Request.Context(), store.State().SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("History service error"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Order history retrieved successfully", orders))
}
