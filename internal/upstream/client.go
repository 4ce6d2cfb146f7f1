// Package upstream is the HTTP client for the order-management API the
// gateway sits in front of.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tably-system/internal/menu"
)

// APIError carries the upstream HTTP status and the message extracted
// from the response body, when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream request failed with status %d", e.StatusCode)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// --- Wire types ---

type QRContext struct {
	OutletID    string `json:"outletId"`
	OutletType  string `json:"outletType,omitempty"`
	TableNumber string `json:"tableNumber,omitempty"`
	TableID     string `json:"tableId,omitempty"`
	ScanMode    string `json:"scanMode,omitempty"`
	SessionID   string `json:"sessionId"`
	Currency    string `json:"currency,omitempty"`
	Country     string `json:"country,omitempty"`
	Language    string `json:"language,omitempty"`
}

type TableInfo struct {
	ID          string `json:"id"`
	TableNumber string `json:"table_number"`
	TableName   string `json:"table_name,omitempty"`
}

type OutletInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type ScanResponse struct {
	Status      string         `json:"status"`
	Version     string         `json:"version,omitempty"`
	GeneratedAt string         `json:"generatedAt,omitempty"`
	QRContext   *QRContext     `json:"qrContext,omitempty"`
	Table       *TableInfo     `json:"table,omitempty"`
	Outlet      *OutletInfo    `json:"outlet,omitempty"`
	Menu        *menu.ScanMenu `json:"menu,omitempty"`
}

type ActiveMenuResponse struct {
	Success bool      `json:"success"`
	Data    menu.Menu `json:"data"`
}

type OrderAddonRequest struct {
	AddonID  string `json:"addon_id"`
	Quantity int    `json:"quantity"`
}

type OrderItemRequest struct {
	MenuItemID          string              `json:"menu_item_id"`
	Quantity            int                 `json:"quantity"`
	VariantID           string              `json:"variant_id,omitempty"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
	Addons              []OrderAddonRequest `json:"addons,omitempty"`
}

type CreateOrderRequest struct {
	OutletID            string             `json:"outlet_id"`
	OrderType           string             `json:"order_type"`
	Items               []OrderItemRequest `json:"items"`
	TableID             string             `json:"table_id,omitempty"`
	TableNumber         string             `json:"table_number,omitempty"`
	SessionID           string             `json:"session_id,omitempty"`
	CustomerName        string             `json:"customer_name,omitempty"`
	CustomerPhone       string             `json:"customer_phone,omitempty"`
	CustomerEmail       string             `json:"customer_email,omitempty"`
	SpecialInstructions string             `json:"special_instructions,omitempty"`
}

type CreatedOrder struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	OrderType   string    `json:"order_type"`
	TableNumber string    `json:"table_number,omitempty"`
	TableID     string    `json:"table_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateOrderResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Order   CreatedOrder `json:"order"`
}

type NameRef struct {
	Name string `json:"name"`
}

type OrderAddonDetail struct {
	Addon    *NameRef `json:"addon"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
}

type OrderItemDetail struct {
	ID                  string             `json:"id"`
	MenuItem            *NameRef           `json:"menu_item"`
	Variant             *NameRef           `json:"variant"`
	Quantity            int                `json:"quantity"`
	UnitPrice           float64            `json:"unit_price"`
	TotalPrice          float64            `json:"total_price"`
	SpecialInstructions string             `json:"special_instructions,omitempty"`
	Addons              []OrderAddonDetail `json:"addons,omitempty"`
}

type OrderOutlet struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type OrderTable struct {
	TableNumber string `json:"table_number"`
	TableName   string `json:"table_name,omitempty"`
}

type OrderDetail struct {
	ID                  string            `json:"id"`
	OrderNumber         string            `json:"order_number"`
	Status              string            `json:"status"`
	TotalAmount         float64           `json:"total_amount"`
	OrderType           string            `json:"order_type"`
	CustomerName        string            `json:"customer_name,omitempty"`
	CustomerPhone       string            `json:"customer_phone,omitempty"`
	SpecialInstructions string            `json:"special_instructions,omitempty"`
	Items               []OrderItemDetail `json:"items"`
	Outlet              *OrderOutlet      `json:"outlet,omitempty"`
	Table               *OrderTable       `json:"table,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

type OrderDetailResponse struct {
	Success bool        `json:"success"`
	Order   OrderDetail `json:"order"`
}

type OutletListItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}

type OutletsResponse struct {
	Success bool             `json:"success"`
	Data    []OutletListItem `json:"data"`
}

// --- Endpoints ---

func (c *Client) ResolveScan(ctx context.Context, code string) (*ScanResponse, error) {
	var out ScanResponse
	path := "/api/customer/scan/" + url.PathEscape(code)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetActiveMenu(ctx context.Context, outletID string) (*ActiveMenuResponse, error) {
	var out ActiveMenuResponse
	path := "/api/customer/outlets/" + url.PathEscape(outletID) + "/active-menu"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	var out CreateOrderResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/customer/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*OrderDetailResponse, error) {
	var out OrderDetailResponse
	path := "/api/customer/orders/" + url.PathEscape(orderID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOutlets(ctx context.Context, businessReferenceID string) (*OutletsResponse, error) {
	var out OutletsResponse
	path := "/api/customer/outlets/" + url.PathEscape(businessReferenceID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: extractMessage(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractMessage pulls a human-readable message out of an error body:
// {"message": "..."} or {"errors": [{"msg": "..."}]}.
func extractMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
		Errors  []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	if len(body.Errors) > 0 {
		return body.Errors[0].Msg
	}
	return ""
}
