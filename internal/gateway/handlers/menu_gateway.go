package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"tably-system/internal/menu"
	"tably-system/internal/upstream"
	"tably-system/internal/validation"
)

const MENU_CACHE_PREFIX = "guest_menu:"

type menuAPI interface {
	GetActiveMenu(ctx context.Context, outletID string) (*upstream.ActiveMenuResponse, error)
	GetOutlets(ctx context.Context, businessReferenceID string) (*upstream.OutletsResponse, error)
}

type MenuHTTPHandler struct {
	api   menuAPI
	redis *redis.Client
	ttl   time.Duration
}

func NewMenuHTTPHandler(api menuAPI, redisClient *redis.Client, ttl time.Duration) *MenuHTTPHandler {
	return &MenuHTTPHandler{
		api:   api,
		redis: redisClient,
		ttl:   ttl,
	}
}

// GetActiveMenu proxies the outlet's published menu, cached briefly so
// every guest at a table does not refetch it.
func (h *MenuHTTPHandler) GetActiveMenu(c *gin.Context) {
	outletID := c.Param("id")
	if !validation.IsUUID(outletID) {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid outlet ID"))
		return
	}

	if cached := h.cachedMenu(c.Request.Context(), outletID); cached != nil {
		c.JSON(http.StatusOK, successResponse("Menu retrieved successfully", cached))
		return
	}

	resp, err := h.api.GetActiveMenu(c.Request.Context(), outletID)
	if err != nil {
		status, body := upstreamStatus(err, "Menu service error")
		c.JSON(status, body)
		return
	}

	h.cacheMenu(c.Request.Context(), outletID, &resp.Data)
	c.JSON(http.StatusOK, successResponse("Menu retrieved successfully", &resp.Data))
}

func (h *MenuHTTPHandler) ListOutlets(c *gin.Context) {
	resp, err := h.api.GetOutlets(c.Request.Context(), c.Param("ref"))
	if err != nil {
		status, body := upstreamStatus(err, "Outlet service error")
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, successResponse("Outlets retrieved successfully", resp.Data))
}

func (h *MenuHTTPHandler) cachedMenu(ctx context.Context, outletID string) *menu.Menu {
	if h.redis == nil {
		return nil
	}

	raw, err := h.redis.Get(ctx, MENU_CACHE_PREFIX+outletID).Result()
	if err != nil {
		return nil
	}

	var cached menu.Menu
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		h.redis.Del(ctx, MENU_CACHE_PREFIX+outletID)
		return nil
	}
	return &cached
}

// cacheMenu failures are ignored; the cache is an optimization only.
func (h *MenuHTTPHandler) cacheMenu(ctx context.Context, outletID string, m *menu.Menu) {
	if h.redis == nil {
		return
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return
	}
	h.redis.Set(ctx, MENU_CACHE_PREFIX+outletID, payload, h.ttl)
}
