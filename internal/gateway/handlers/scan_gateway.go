package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tably-system/internal/scan"
	"tably-system/internal/session"
	"tably-system/internal/utils"
)

type ScanHTTPHandler struct {
	resolver *scan.Resolver
	sessions *session.Manager
	tokenTTL time.Duration
}

func NewScanHTTPHandler(resolver *scan.Resolver, sessions *session.Manager, tokenTTL time.Duration) *ScanHTTPHandler {
	return &ScanHTTPHandler{
		resolver: resolver,
		sessions: sessions,
		tokenTTL: tokenTTL,
	}
}

type ScanRequest struct {
	Code   string `json:"code" binding:"required"`
	Source string `json:"source,omitempty"`
}

// Scan resolves a table code into a guest session. Codes arriving from
// a deep link ("source": "url") get the retrying resolution; manually
// entered codes fail fast so the guest can correct a typo.
func (h *ScanHTTPHandler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	key := uuid.NewString()
	store := h.sessions.GetOrCreate(key)

	var (
		result *scan.Result
		err    error
	)
	if req.Source == "url" {
		result, err = h.resolver.ResolveFromURL(c.Request.Context(), req.Code, store)
	} else {
		result, err = h.resolver.Resolve(c.Request.Context(), req.Code, store)
	}
	if err != nil {
		h.sessions.Remove(key)

		if errors.Is(err, scan.ErrEmptyCode) {
			c.JSON(http.StatusBadRequest, errorResponse("Code is required"))
			return
		}
		var urlErr *scan.URLResolveError
		if errors.As(err, &urlErr) {
			c.JSON(http.StatusBadGateway, APIResponse{
				Success: false,
				Message: "Could not resolve the scanned code",
				Data:    gin.H{"code": urlErr.Code},
			})
			return
		}
		status, body := upstreamStatus(err, "Scan service error")
		c.JSON(status, body)
		return
	}

	var outletID string
	if result.Context.Outlet != nil {
		outletID = result.Context.Outlet.ID
	}
	token, expiresAt, err := utils.GenerateGuestToken(key, outletID, result.Context.TableID, h.tokenTTL)
	if err != nil {
		h.sessions.Remove(key)
		c.JSON(http.StatusInternalServerError, errorResponse("Could not create session token"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Scan resolved successfully", gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"context":    result.Context,
		"menu":       result.Menu,
		"from_cache": result.FromCache,
	}))
}
