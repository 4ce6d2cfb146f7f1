// Package session owns the per-guest application state: the resolved
// outlet/table context, the cart, the current order projection and the
// notification feed. State is mutated only through the closed Action
// set applied by the pure Apply function.
package session

import (
	"time"

	"tably-system/internal/cart"
	"tably-system/internal/validation"
)

const NotificationLimit = 50

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further status transition is expected.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Outlet struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Context is the result of a successful code resolution, as applied to
// the state.
type Context struct {
	Outlet      *Outlet   `json:"outlet,omitempty"`
	TableID     string    `json:"table_id,omitempty"`
	TableNumber string    `json:"table_number,omitempty"`
	SessionID   string    `json:"session_id,omitempty"`
	OrderType   OrderType `json:"order_type,omitempty"`
	Currency    string    `json:"currency,omitempty"`
}

type OrderItem struct {
	Name                string  `json:"name"`
	VariantName         string  `json:"variant_name,omitempty"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	TotalPrice          float64 `json:"total_price"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
}

// Order is the read-only projection of an upstream order; the backend
// owns it, the gateway only refreshes it by polling.
type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	OrderType   OrderType   `json:"order_type"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Notification struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	OrderID string `json:"order_id,omitempty"`
	Read    bool   `json:"read"`
}

type State struct {
	Outlet         *Outlet        `json:"outlet,omitempty"`
	TableID        string         `json:"table_id,omitempty"`
	TableNumber    string         `json:"table_number,omitempty"`
	SessionID      string         `json:"session_id,omitempty"`
	OrderType      OrderType      `json:"order_type"`
	Currency       string         `json:"currency,omitempty"`
	Cart           []cart.Line    `json:"cart"`
	CurrentOrderID string         `json:"current_order_id,omitempty"`
	CurrentOrder   *Order         `json:"current_order,omitempty"`
	Notifications  []Notification `json:"notifications"`
}

func InitialState() State {
	return State{OrderType: OrderTypeDineIn}
}

// Action is the closed command set for state transitions.
type Action interface{ isAction() }

type SetContext struct{ Context Context }

type AddToCart struct{ Line cart.Line }

// UpdateCartLine patches the line at Index. A quantity below 1 removes
// the line entirely.
type UpdateCartLine struct {
	Index               int
	Quantity            *int
	SpecialInstructions *string
}

type RemoveCartLine struct{ Index int }

type ClearCart struct{}

type SetCurrentOrder struct{ Order *Order }

type SetCurrentOrderID struct{ ID string }

type PushNotification struct {
	ID      string
	Message string
	OrderID string
}

type MarkAllNotificationsRead struct{}

type ResetSession struct{}

func (SetContext) isAction()               {}
func (AddToCart) isAction()                {}
func (UpdateCartLine) isAction()           {}
func (RemoveCartLine) isAction()           {}
func (ClearCart) isAction()                {}
func (SetCurrentOrder) isAction()          {}
func (SetCurrentOrderID) isAction()        {}
func (PushNotification) isAction()         {}
func (MarkAllNotificationsRead) isAction() {}
func (ResetSession) isAction()             {}

// Apply is the pure transition function. It is total: unknown actions
// and invalid indices leave the state unchanged.
func Apply(state State, action Action) State {
	switch a := action.(type) {
	case SetContext:
		next := state
		// A context without a UUID-valid outlet id keeps the previous
		// outlet instead of overwriting it with an invalid one.
		if a.Context.Outlet != nil && validation.IsUUID(a.Context.Outlet.ID) {
			outlet := *a.Context.Outlet
			next.Outlet = &outlet
		}
		next.TableID = a.Context.TableID
		next.TableNumber = a.Context.TableNumber
		next.SessionID = a.Context.SessionID
		next.Currency = a.Context.Currency
		if a.Context.OrderType != "" {
			next.OrderType = a.Context.OrderType
		} else {
			next.OrderType = OrderTypeDineIn
		}
		return next

	case AddToCart:
		next := state
		next.Cart = cart.Add(state.Cart, a.Line)
		return next

	case UpdateCartLine:
		if a.Index < 0 || a.Index >= len(state.Cart) {
			return state
		}
		if a.Quantity != nil && *a.Quantity < 1 {
			return Apply(state, RemoveCartLine{Index: a.Index})
		}
		next := state
		next.Cart = make([]cart.Line, len(state.Cart))
		copy(next.Cart, state.Cart)
		if a.Quantity != nil {
			next.Cart[a.Index].Quantity = *a.Quantity
		}
		if a.SpecialInstructions != nil {
			next.Cart[a.Index].SpecialInstructions = *a.SpecialInstructions
		}
		return next

	case RemoveCartLine:
		if a.Index < 0 || a.Index >= len(state.Cart) {
			return state
		}
		next := state
		next.Cart = make([]cart.Line, 0, len(state.Cart)-1)
		next.Cart = append(next.Cart, state.Cart[:a.Index]...)
		next.Cart = append(next.Cart, state.Cart[a.Index+1:]...)
		return next

	case ClearCart:
		next := state
		next.Cart = nil
		return next

	case SetCurrentOrder:
		next := state
		next.CurrentOrder = a.Order
		return next

	case SetCurrentOrderID:
		next := state
		next.CurrentOrderID = a.ID
		return next

	case PushNotification:
		next := state
		notifications := make([]Notification, 0, len(state.Notifications)+1)
		notifications = append(notifications, Notification{
			ID:      a.ID,
			Message: a.Message,
			OrderID: a.OrderID,
		})
		notifications = append(notifications, state.Notifications...)
		if len(notifications) > NotificationLimit {
			notifications = notifications[:NotificationLimit]
		}
		next.Notifications = notifications
		return next

	case MarkAllNotificationsRead:
		next := state
		next.Notifications = make([]Notification, len(state.Notifications))
		for i, n := range state.Notifications {
			n.Read = true
			next.Notifications[i] = n
		}
		return next

	case ResetSession:
		return InitialState()
	}

	return state
}
