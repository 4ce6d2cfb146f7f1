// Package order talks to the upstream order API on behalf of a guest
// session: local validation, submission, and status polling.
package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"tably-system/internal/session"
	"tably-system/internal/upstream"
	"tably-system/internal/validation"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrNoOutlet      = errors.New("no outlet selected")
	ErrPhoneRequired = errors.New("phone number is required")
	ErrNameRequired  = errors.New("customer name is required for delivery")
)

type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type orderAPI interface {
	CreateOrder(ctx context.Context, req upstream.CreateOrderRequest) (*upstream.CreateOrderResponse, error)
	GetOrder(ctx context.Context, orderID string) (*upstream.OrderDetailResponse, error)
}

// Recorder persists the per-session order history projection. Failures
// are logged, never surfaced: history is a convenience, not a source of
// truth.
type Recorder interface {
	RecordOrder(ctx context.Context, sessionID string, order session.Order) error
	UpdateStatus(ctx context.Context, orderID string, status session.OrderStatus, totalAmount float64, updatedAt time.Time) error
}

type Service struct {
	api     orderAPI
	history Recorder
	logger  *zap.SugaredLogger
}

func NewService(api orderAPI, history Recorder, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{api: api, history: history, logger: logger}
}

// Submit validates locally, creates the order upstream, and on success
// clears the cart, records the order projection and pushes a
// notification. A failed submission leaves cart and session untouched.
func (s *Service) Submit(ctx context.Context, store *session.Store, contact Contact, instructions string) (*session.Order, error) {
	state := store.State()

	if len(state.Cart) == 0 {
		return nil, ErrEmptyCart
	}
	if state.Outlet == nil || !validation.IsUUID(state.Outlet.ID) {
		return nil, ErrNoOutlet
	}
	if state.OrderType != session.OrderTypeDineIn && strings.TrimSpace(contact.Phone) == "" {
		return nil, ErrPhoneRequired
	}
	if state.OrderType == session.OrderTypeDelivery && strings.TrimSpace(contact.Name) == "" {
		return nil, ErrNameRequired
	}

	req := upstream.CreateOrderRequest{
		OutletID:            state.Outlet.ID,
		OrderType:           string(state.OrderType),
		Items:               make([]upstream.OrderItemRequest, 0, len(state.Cart)),
		TableID:             state.TableID,
		TableNumber:         state.TableNumber,
		SessionID:           state.SessionID,
		SpecialInstructions: strings.TrimSpace(instructions),
	}
	for _, line := range state.Cart {
		item := upstream.OrderItemRequest{
			MenuItemID:          line.MenuItemID,
			Quantity:            line.Quantity,
			VariantID:           line.VariantID,
			SpecialInstructions: line.SpecialInstructions,
		}
		for _, addon := range line.Addons {
			item.Addons = append(item.Addons, upstream.OrderAddonRequest{
				AddonID:  addon.AddonID,
				Quantity: addon.Quantity,
			})
		}
		req.Items = append(req.Items, item)
	}
	// contact details only travel for takeaway and delivery
	if state.OrderType != session.OrderTypeDineIn {
		req.CustomerName = strings.TrimSpace(contact.Name)
		req.CustomerPhone = strings.TrimSpace(contact.Phone)
		req.CustomerEmail = strings.TrimSpace(contact.Email)
	}

	resp, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	placed := session.Order{
		ID:          resp.Order.ID,
		OrderNumber: resp.Order.OrderNumber,
		Status:      session.OrderStatus(resp.Order.Status),
		TotalAmount: resp.Order.TotalAmount,
		OrderType:   session.OrderType(resp.Order.OrderType),
		CreatedAt:   resp.Order.CreatedAt,
		UpdatedAt:   resp.Order.CreatedAt,
	}

	store.ClearCart()
	store.SetCurrentOrderID(placed.ID)
	store.SetCurrentOrder(&placed)
	store.PushNotification("Order placed #"+placed.OrderNumber, placed.ID)

	if s.history != nil {
		if err := s.history.RecordOrder(ctx, state.SessionID, placed); err != nil {
			s.logger.Warnw("record order history", "order_id", placed.ID, "error", err)
		}
	}

	s.logger.Infow("order placed", "order_id", placed.ID, "order_number", placed.OrderNumber, "outlet_id", state.Outlet.ID)
	return &placed, nil
}

// Fetch returns the current order detail as a session projection.
func (s *Service) Fetch(ctx context.Context, orderID string) (*session.Order, error) {
	resp, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	projected := Projection(resp.Order)
	return &projected, nil
}

// Projection maps the upstream detail onto the read-only session order.
func Projection(d upstream.OrderDetail) session.Order {
	projected := session.Order{
		ID:          d.ID,
		OrderNumber: d.OrderNumber,
		Status:      session.OrderStatus(d.Status),
		TotalAmount: d.TotalAmount,
		OrderType:   session.OrderType(d.OrderType),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	for _, item := range d.Items {
		projectedItem := session.OrderItem{
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			TotalPrice:          item.TotalPrice,
			SpecialInstructions: item.SpecialInstructions,
		}
		if item.MenuItem != nil {
			projectedItem.Name = item.MenuItem.Name
		}
		if item.Variant != nil {
			projectedItem.VariantName = item.Variant.Name
		}
		projected.Items = append(projected.Items, projectedItem)
	}
	return projected
}
