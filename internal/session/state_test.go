package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tably-system/internal/cart"
)

const outletID = "11111111-2222-4333-8444-555555555555"

func resolvedContext() Context {
	return Context{
		Outlet:      &Outlet{ID: outletID, Name: "Corner Cafe"},
		TableID:     "t-1",
		TableNumber: "12",
		SessionID:   "sess-1",
		OrderType:   OrderTypeDineIn,
		Currency:    "INR",
	}
}

func TestApplySetContext(t *testing.T) {
	state := Apply(InitialState(), SetContext{Context: resolvedContext()})

	require.NotNil(t, state.Outlet)
	assert.Equal(t, "Corner Cafe", state.Outlet.Name)
	assert.Equal(t, "12", state.TableNumber)
	assert.Equal(t, "sess-1", state.SessionID)
	assert.Equal(t, "INR", state.Currency)
	assert.Equal(t, OrderTypeDineIn, state.OrderType)
}

func TestApplySetContextKeepsOutletOnInvalidID(t *testing.T) {
	state := Apply(InitialState(), SetContext{Context: resolvedContext()})

	bad := resolvedContext()
	bad.Outlet = &Outlet{ID: "not-a-uuid", Name: "Ghost Outlet"}
	bad.TableNumber = "7"
	state = Apply(state, SetContext{Context: bad})

	require.NotNil(t, state.Outlet)
	assert.Equal(t, "Corner Cafe", state.Outlet.Name, "invalid outlet id must not overwrite")
	assert.Equal(t, "7", state.TableNumber, "rest of the context still applies")

	state = Apply(state, SetContext{Context: Context{TableNumber: "9"}})
	require.NotNil(t, state.Outlet, "missing outlet keeps the previous one")
}

func TestApplySetContextPreservesCartAndNotifications(t *testing.T) {
	state := InitialState()
	state = Apply(state, AddToCart{Line: cart.Line{MenuItemID: "a", Quantity: 1, UnitPrice: 10}})
	state = Apply(state, PushNotification{ID: "n1", Message: "hello"})

	state = Apply(state, SetContext{Context: resolvedContext()})
	assert.Len(t, state.Cart, 1)
	assert.Len(t, state.Notifications, 1)
}

func TestApplyAddToCartMerges(t *testing.T) {
	state := InitialState()
	state = Apply(state, AddToCart{Line: cart.Line{MenuItemID: "A", VariantID: "V1", Quantity: 2, UnitPrice: 10}})
	state = Apply(state, AddToCart{Line: cart.Line{MenuItemID: "A", VariantID: "V1", Quantity: 1, UnitPrice: 10}})

	require.Len(t, state.Cart, 1)
	assert.Equal(t, 3, state.Cart[0].Quantity)

	state = Apply(state, AddToCart{Line: cart.Line{MenuItemID: "A", VariantID: "V2", Quantity: 1, UnitPrice: 12}})
	require.Len(t, state.Cart, 2)
}

func TestApplyUpdateCartLine(t *testing.T) {
	state := InitialState()
	state = Apply(state, AddToCart{Line: cart.Line{MenuItemID: "A", Quantity: 2, UnitPrice: 10}})

	qty := 5
	state = Apply(state, UpdateCartLine{Index: 0, Quantity: &qty})
	assert.Equal(t, 5, state.Cart[0].Quantity)

	notes := "less salt"
	state = Apply(state, UpdateCartLine{Index: 0, SpecialInstructions: &notes})
	assert.Equal(t, "less salt", state.Cart[0].SpecialInstructions)
	assert.Equal(t, 5, state.Cart[0].Quantity)
}

func TestApplyUpdateCartLineBelowOneRemoves(t *testing.T) {
	state := InitialState()
	state = Apply(state, AddToCart{Line: cart.Line{MenuItemID: "A", Quantity: 1, UnitPrice: 10}})
	state = Apply(state, AddToCart{Line: cart.Line{MenuItemID: "B", Quantity: 1, UnitPrice: 20}})

	zero := 0
	state = Apply(state, UpdateCartLine{Index: 0, Quantity: &zero})
	require.Len(t, state.Cart, 1)
	assert.Equal(t, "B", state.Cart[0].MenuItemID)
}

func TestApplyInvalidIndicesAreNoOps(t *testing.T) {
	state := InitialState()
	state = Apply(state, AddToCart{Line: cart.Line{MenuItemID: "A", Quantity: 1}})

	qty := 3
	assert.Equal(t, state, Apply(state, UpdateCartLine{Index: -1, Quantity: &qty}))
	assert.Equal(t, state, Apply(state, UpdateCartLine{Index: 1, Quantity: &qty}))
	assert.Equal(t, state, Apply(state, RemoveCartLine{Index: 5}))
	assert.Equal(t, state, Apply(state, RemoveCartLine{Index: -2}))
}

func TestApplyClearCartOnlyEmptiesCart(t *testing.T) {
	state := Apply(InitialState(), SetContext{Context: resolvedContext()})
	state = Apply(state, AddToCart{Line: cart.Line{MenuItemID: "A", Quantity: 1}})
	state = Apply(state, PushNotification{ID: "n1", Message: "m"})

	state = Apply(state, ClearCart{})
	assert.Empty(t, state.Cart)
	assert.NotNil(t, state.Outlet)
	assert.Len(t, state.Notifications, 1)
}

func TestApplyNotificationsPrependAndCap(t *testing.T) {
	state := InitialState()
	for i := 0; i < NotificationLimit+1; i++ {
		state = Apply(state, PushNotification{ID: fmt.Sprintf("n%d", i), Message: fmt.Sprintf("msg %d", i)})
	}

	require.Len(t, state.Notifications, NotificationLimit)
	assert.Equal(t, "n50", state.Notifications[0].ID, "newest first")
	assert.Equal(t, "n1", state.Notifications[NotificationLimit-1].ID, "oldest dropped")
	assert.False(t, state.Notifications[0].Read)
}

func TestApplyMarkAllNotificationsRead(t *testing.T) {
	state := InitialState()
	for i := 0; i < 3; i++ {
		state = Apply(state, PushNotification{ID: fmt.Sprintf("n%d", i), Message: "m"})
	}

	state = Apply(state, MarkAllNotificationsRead{})
	require.Len(t, state.Notifications, 3)
	assert.Equal(t, "n2", state.Notifications[0].ID, "order preserved")
	for _, n := range state.Notifications {
		assert.True(t, n.Read)
	}
}

func TestApplyResetSession(t *testing.T) {
	state := Apply(InitialState(), SetContext{Context: resolvedContext()})
	state = Apply(state, AddToCart{Line: cart.Line{MenuItemID: "A", Quantity: 1}})
	state = Apply(state, PushNotification{ID: "n1", Message: "m"})

	state = Apply(state, ResetSession{})
	assert.Equal(t, InitialState(), state)
}
