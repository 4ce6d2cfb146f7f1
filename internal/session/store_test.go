package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tably-system/internal/cart"
)

func TestStoreObserversSeeActionsInOrder(t *testing.T) {
	store := NewStore()

	var seen []int
	store.Subscribe(func(s State) {
		seen = append(seen, len(s.Cart))
	})

	store.AddToCart(cart.Line{MenuItemID: "a", Quantity: 1})
	store.AddToCart(cart.Line{MenuItemID: "b", Quantity: 1})
	store.ClearCart()

	assert.Equal(t, []int{1, 2, 0}, seen)
}

func TestStoreSnapshotIsolation(t *testing.T) {
	store := NewStore()
	store.AddToCart(cart.Line{MenuItemID: "a", Quantity: 1})

	snapshot := store.State()
	snapshot.Cart[0].Quantity = 99
	snapshot.Notifications = append(snapshot.Notifications, Notification{ID: "x"})

	assert.Equal(t, 1, store.State().Cart[0].Quantity)
	assert.Empty(t, store.State().Notifications)
}

func TestStorePushNotificationAssignsUniqueIDs(t *testing.T) {
	store := NewStore()
	store.PushNotification("order placed #A-1", "order-1")
	state := store.PushNotification("order placed #A-2", "order-2")

	require.Len(t, state.Notifications, 2)
	assert.NotEmpty(t, state.Notifications[0].ID)
	assert.NotEqual(t, state.Notifications[0].ID, state.Notifications[1].ID)
	assert.Equal(t, "order placed #A-2", state.Notifications[0].Message)
}

func TestManagerLifecycle(t *testing.T) {
	manager := NewManager()

	a := manager.GetOrCreate("sess-a")
	again := manager.GetOrCreate("sess-a")
	assert.Same(t, a, again)

	b := manager.GetOrCreate("sess-b")
	assert.NotSame(t, a, b)

	manager.Remove("sess-a")
	_, ok := manager.Get("sess-a")
	assert.False(t, ok)

	_, ok = manager.Get("sess-b")
	assert.True(t, ok)
}
