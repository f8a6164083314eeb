package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should call handlers in subscription order", func(t *testing.T) {
		bus := NewEventBus()
		var calls []string
		for _, name := range []string{"first", "second", "third"} {
			bus.Subscribe(BudgetCreated, func(e Event) error {
				calls = append(calls, name)
				return nil
			})
		}

		err := bus.Publish(NewEvent(context.Background(), BudgetCreated, BudgetChanged{Id: 1}))

		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "third"}, calls)
	})

	t.Run("should collect handler errors and recover panics", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		bus.Subscribe(BudgetDeleted, func(e Event) error { return errors.New("boom") })
		bus.Subscribe(BudgetDeleted, func(e Event) error { panic("oops") })
		bus.Subscribe(BudgetDeleted, func(e Event) error {
			called = true
			return nil
		})

		err := bus.Publish(NewEvent(context.Background(), BudgetDeleted, BudgetChanged{Id: 1}))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 handler(s) failed")
		assert.True(t, called)
	})

	t.Run("should not dispatch when context is cancelled", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		bus.Subscribe(SettingsUpdated, func(e Event) error {
			called = true
			return nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bus.Publish(NewEvent(ctx, SettingsUpdated, SettingsChanged{}))

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestSubscribeTyped(t *testing.T) {
	bus := NewEventBus()
	var received []SettingsChanged
	unsubscribe := SubscribeTyped[SettingsChanged](bus, SettingsUpdated, func(e EventT[SettingsChanged]) error {
		received = append(received, e.Data)
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), SettingsUpdated, SettingsChanged{Currency: "EUR"})))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), SettingsUpdated, "not settings")))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), SettingsUpdated, SettingsChanged{Currency: "USD"})))

	require.Len(t, received, 1)
	assert.Equal(t, "EUR", received[0].Currency)
}

func TestSubscribeMany(t *testing.T) {
	bus := NewEventBus()
	var types []EventType
	unsubscribe := bus.SubscribeMany([]EventType{TransactionCreated, TransactionDeleted}, func(e Event) error {
		types = append(types, e.Type)
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), TransactionCreated, TransactionChanged{})))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), TransactionDeleted, TransactionChanged{})))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), TransactionCreated, TransactionChanged{})))

	assert.Equal(t, []EventType{TransactionCreated, TransactionDeleted}, types)
}
