package session

import (
	"sync"

	"github.com/google/uuid"

	"tably-system/internal/cart"
)

// Observer is called synchronously after every applied action, in
// dispatch order, with the resulting state.
type Observer func(State)

// Store serializes all writes to one guest's state. Every mutation
// funnels through Dispatch; actions are applied in invocation order.
type Store struct {
	mu        sync.Mutex
	state     State
	observers []Observer
}

func NewStore() *Store {
	return &Store{state: InitialState()}
}

// Dispatch applies the action and notifies observers while holding the
// lock, so observers see states in the exact order actions were applied.
// Observers must not dispatch back into the same store.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Apply(s.state, action)
	snapshot := s.snapshotLocked()
	for _, observer := range s.observers {
		observer(snapshot)
	}
	return snapshot
}

func (s *Store) Subscribe(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// State returns a snapshot; slices are copied so callers cannot mutate
// the store through it.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	snapshot := s.state
	if s.state.Cart != nil {
		snapshot.Cart = make([]cart.Line, len(s.state.Cart))
		copy(snapshot.Cart, s.state.Cart)
	}
	if s.state.Notifications != nil {
		snapshot.Notifications = make([]Notification, len(s.state.Notifications))
		copy(snapshot.Notifications, s.state.Notifications)
	}
	return snapshot
}

// --- Named actions ---

func (s *Store) SetContext(ctx Context) State {
	return s.Dispatch(SetContext{Context: ctx})
}

func (s *Store) AddToCart(line cart.Line) State {
	return s.Dispatch(AddToCart{Line: line})
}

func (s *Store) UpdateCartLine(index int, quantity *int, instructions *string) State {
	return s.Dispatch(UpdateCartLine{Index: index, Quantity: quantity, SpecialInstructions: instructions})
}

func (s *Store) RemoveCartLine(index int) State {
	return s.Dispatch(RemoveCartLine{Index: index})
}

func (s *Store) ClearCart() State {
	return s.Dispatch(ClearCart{})
}

func (s *Store) SetCurrentOrder(order *Order) State {
	return s.Dispatch(SetCurrentOrder{Order: order})
}

func (s *Store) SetCurrentOrderID(id string) State {
	return s.Dispatch(SetCurrentOrderID{ID: id})
}

func (s *Store) PushNotification(message, orderID string) State {
	return s.Dispatch(PushNotification{ID: uuid.NewString(), Message: message, OrderID: orderID})
}

func (s *Store) MarkAllNotificationsRead() State {
	return s.Dispatch(MarkAllNotificationsRead{})
}

func (s *Store) Reset() State {
	return s.Dispatch(ResetSession{})
}
