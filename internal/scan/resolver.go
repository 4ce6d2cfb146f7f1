package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tably-system/internal/menu"
	"tably-system/internal/session"
	"tably-system/internal/upstream"
)

const (
	// Deep-link codes get a second chance; manual entry does not.
	MAX_URL_ATTEMPTS = 2
	URL_RETRY_DELAY  = 1500 * time.Millisecond
)

var ErrEmptyCode = errors.New("code is required")

// URLResolveError reports that every deep-link attempt failed. Code is
// kept so the manual entry form can be pre-filled with it.
type URLResolveError struct {
	Code    string
	LastErr error
}

func (e *URLResolveError) Error() string {
	return fmt.Sprintf("url resolution failed for code %q: %v", e.Code, e.LastErr)
}

func (e *URLResolveError) Unwrap() error { return e.LastErr }

type resolveAPI interface {
	ResolveScan(ctx context.Context, code string) (*upstream.ScanResponse, error)
}

// Result of a successful resolution: the context applied to the session
// store, the menu embedded in the scan payload (if any), and whether
// the cache answered.
type Result struct {
	Context   session.Context
	Menu      *menu.Menu
	FromCache bool
}

type Resolver struct {
	api        resolveAPI
	cache      Cache
	ttl        time.Duration
	retryDelay time.Duration
	logger     *zap.SugaredLogger
}

func NewResolver(api resolveAPI, cache Cache, ttl, retryDelay time.Duration, logger *zap.SugaredLogger) *Resolver {
	if ttl <= 0 {
		ttl = SCAN_CACHE_TTL
	}
	if retryDelay <= 0 {
		retryDelay = URL_RETRY_DELAY
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Resolver{api: api, cache: cache, ttl: ttl, retryDelay: retryDelay, logger: logger}
}

// Resolve turns a scanned or manually entered code into a session
// context on the store. Cache-first; a miss hits the upstream scan
// endpoint and refreshes the cache with a full TTL. On upstream failure
// the cache is left untouched.
func (r *Resolver) Resolve(ctx context.Context, code string, store *session.Store) (*Result, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, ErrEmptyCode
	}

	if cached := r.cache.Get(ctx, trimmed); cached != nil {
		r.logger.Infow("scan cache hit", "code", trimmed)
		return r.applyResponse(ctx, cached, store, true)
	}

	data, err := r.api.ResolveScan(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, trimmed, data, r.ttl)

	return r.applyResponse(ctx, data, store, false)
}

// ResolveFromURL handles a code supplied as a URL parameter: up to
// MAX_URL_ATTEMPTS attempts with a fixed delay, short-circuiting on the
// first success. Cancellation is checked before every state mutation
// and before scheduling the next attempt, so a torn-down caller never
// sees a late write.
func (r *Resolver) ResolveFromURL(ctx context.Context, code string, store *session.Store) (*Result, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, ErrEmptyCode
	}

	var lastErr error
	for attempt := 1; attempt <= MAX_URL_ATTEMPTS; attempt++ {
		result, err := r.Resolve(ctx, trimmed, store)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		lastErr = err
		r.logger.Warnw("url scan attempt failed", "code", trimmed, "attempt", attempt, "error", err)

		if attempt < MAX_URL_ATTEMPTS {
			timer := time.NewTimer(r.retryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, &URLResolveError{Code: trimmed, LastErr: lastErr}
}

func (r *Resolver) applyResponse(ctx context.Context, data *upstream.ScanResponse, store *session.Store, fromCache bool) (*Result, error) {
	// a cancelled caller must not mutate the store
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessionCtx := ContextFromScan(data)
	store.SetContext(sessionCtx)

	return &Result{
		Context:   sessionCtx,
		Menu:      menu.NormalizeScanMenu(data.Menu),
		FromCache: fromCache,
	}, nil
}

// ContextFromScan maps the scan payload onto the session context. The
// qrContext block wins over the table block for table identity; a
// "takeaway" scan mode flips the order type, anything else is dine-in.
func ContextFromScan(data *upstream.ScanResponse) session.Context {
	sessionCtx := session.Context{OrderType: session.OrderTypeDineIn}

	if data.Outlet != nil {
		sessionCtx.Outlet = &session.Outlet{
			ID:      data.Outlet.ID,
			Name:    data.Outlet.Name,
			Address: data.Outlet.Address,
			Phone:   data.Outlet.Phone,
		}
	}
	if qr := data.QRContext; qr != nil {
		sessionCtx.TableID = qr.TableID
		sessionCtx.TableNumber = qr.TableNumber
		sessionCtx.SessionID = qr.SessionID
		sessionCtx.Currency = qr.Currency
		if qr.ScanMode == "takeaway" {
			sessionCtx.OrderType = session.OrderTypeTakeaway
		}
	}
	if sessionCtx.TableNumber == "" && data.Table != nil {
		sessionCtx.TableNumber = data.Table.TableNumber
	}
	return sessionCtx
}
