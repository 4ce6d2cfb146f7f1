package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tably-system/internal/cart"
	"tably-system/internal/session"
	"tably-system/internal/upstream"
)

const outletID = "11111111-2222-4333-8444-555555555555"

type stubOrderAPI struct {
	mu          sync.Mutex
	createCalls int
	createResp  *upstream.CreateOrderResponse
	createErr   error
	getCalls    int
	getResp     *upstream.OrderDetailResponse
	getErr      error
}

func (s *stubOrderAPI) CreateOrder(ctx context.Context, req upstream.CreateOrderRequest) (*upstream.CreateOrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createResp, nil
}

func (s *stubOrderAPI) GetOrder(ctx context.Context, orderID string) (*upstream.OrderDetailResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getResp, nil
}

func (s *stubOrderAPI) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCalls, s.getCalls
}

func sessionStore(orderType session.OrderType, withCart bool) *session.Store {
	store := session.NewStore()
	store.SetContext(session.Context{
		Outlet:    &session.Outlet{ID: outletID, Name: "Corner Cafe"},
		TableID:   "t-1",
		SessionID: "sess-1",
		OrderType: orderType,
		Currency:  "INR",
	})
	if withCart {
		store.AddToCart(cart.Line{MenuItemID: "i-1", Name: "Curry", Quantity: 2, UnitPrice: 120})
	}
	return store
}

func createdResponse() *upstream.CreateOrderResponse {
	return &upstream.CreateOrderResponse{
		Success: true,
		Order: upstream.CreatedOrder{
			ID:          "ord-1",
			OrderNumber: "A-17",
			Status:      "pending",
			TotalAmount: 240,
			OrderType:   "dine_in",
			CreatedAt:   time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		store   *session.Store
		contact Contact
		wantErr error
	}{
		{"empty cart", sessionStore(session.OrderTypeDineIn, false), Contact{}, ErrEmptyCart},
		{"takeaway without phone", sessionStore(session.OrderTypeTakeaway, true), Contact{}, ErrPhoneRequired},
		{"takeaway blank phone", sessionStore(session.OrderTypeTakeaway, true), Contact{Phone: "   "}, ErrPhoneRequired},
		{"delivery without name", sessionStore(session.OrderTypeDelivery, true), Contact{Phone: "12345"}, ErrNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubOrderAPI{createResp: createdResponse()}
			svc := NewService(api, nil, nil)

			_, err := svc.Submit(context.Background(), tt.store, tt.contact, "")
			assert.ErrorIs(t, err, tt.wantErr)

			created, _ := api.calls()
			assert.Zero(t, created, "validation failures must not reach the network")
		})
	}
}

func TestSubmitRejectsInvalidOutletID(t *testing.T) {
	store := session.NewStore()
	store.AddToCart(cart.Line{MenuItemID: "i-1", Quantity: 1, UnitPrice: 10})

	api := &stubOrderAPI{createResp: createdResponse()}
	svc := NewService(api, nil, nil)

	_, err := svc.Submit(context.Background(), store, Contact{}, "")
	assert.ErrorIs(t, err, ErrNoOutlet)
	created, _ := api.calls()
	assert.Zero(t, created)
}

func TestSubmitDineInNeedsNoPhone(t *testing.T) {
	api := &stubOrderAPI{createResp: createdResponse()}
	svc := NewService(api, nil, nil)
	store := sessionStore(session.OrderTypeDineIn, true)

	placed, err := svc.Submit(context.Background(), store, Contact{}, "")
	require.NoError(t, err)
	assert.Equal(t, "A-17", placed.OrderNumber)
}

func TestSubmitSuccessEffects(t *testing.T) {
	api := &stubOrderAPI{createResp: createdResponse()}
	svc := NewService(api, nil, nil)
	store := sessionStore(session.OrderTypeDineIn, true)

	placed, err := svc.Submit(context.Background(), store, Contact{}, "no cutlery")
	require.NoError(t, err)

	state := store.State()
	assert.Empty(t, state.Cart, "cart cleared on success")
	assert.Equal(t, placed.ID, state.CurrentOrderID)
	require.NotNil(t, state.CurrentOrder)
	assert.Equal(t, session.StatusPending, state.CurrentOrder.Status)
	require.Len(t, state.Notifications, 1)
	assert.Contains(t, state.Notifications[0].Message, "A-17")
	assert.Equal(t, placed.ID, state.Notifications[0].OrderID)
}

func TestSubmitFailureLeavesStateUntouched(t *testing.T) {
	api := &stubOrderAPI{createErr: &upstream.APIError{StatusCode: 422, Message: "Outlet is closed"}}
	svc := NewService(api, nil, nil)
	store := sessionStore(session.OrderTypeDineIn, true)

	_, err := svc.Submit(context.Background(), store, Contact{}, "")
	require.Error(t, err)
	assert.Equal(t, "Outlet is closed", err.Error())

	state := store.State()
	assert.Len(t, state.Cart, 1, "failed submission must not clear the cart")
	assert.Empty(t, state.CurrentOrderID)
	assert.Empty(t, state.Notifications)
}
