package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/pocketbook/pocketbook/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultSettings = Settings{Currency: "EUR", Language: "en"}

func setup() (*Service, *StubRepository, *event_bus.EventBus) {
	repo := NewStubRepository()
	bus := event_bus.NewEventBus()
	return NewService(repo, bus, defaultSettings), repo, bus
}

func TestService_Get(t *testing.T) {
	t.Run("should return defaults when nothing is stored", func(t *testing.T) {
		service, _, _ := setup()

		result, err := service.Get(context.Background())

		require.NoError(t, err)
		assert.Equal(t, defaultSettings, result)
	})

	t.Run("should return stored settings", func(t *testing.T) {
		// given
		service, repo, _ := setup()
		require.NoError(t, repo.Store(context.Background(), Settings{DisplayName: "Ana", Currency: "USD", Language: "es"}))

		// when
		result, err := service.Get(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, "Ana", result.DisplayName)
		assert.Equal(t, "USD", result.Currency)
	})

	t.Run("should fall back to defaults in Current when repository fails", func(t *testing.T) {
		service, repo, _ := setup()
		repo.FailWith = errors.New("disk full")

		assert.Equal(t, defaultSettings, service.Current())
	})
}

func TestService_Update(t *testing.T) {
	t.Run("should normalize, store and announce settings", func(t *testing.T) {
		// given
		service, repo, bus := setup()
		var received []event_bus.SettingsChanged
		event_bus.SubscribeTyped(bus, event_bus.SettingsUpdated, func(e event_bus.EventT[event_bus.SettingsChanged]) error {
			received = append(received, e.Data)
			return nil
		})

		// when
		result, err := service.Update(context.Background(), Settings{DisplayName: " Ana ", Currency: "usd", Language: "ES"})

		// then
		require.NoError(t, err)
		assert.Equal(t, Settings{DisplayName: "Ana", Currency: "USD", Language: "es"}, result)
		stored, _ := repo.Get(context.Background())
		assert.Equal(t, result, stored)
		require.Len(t, received, 1)
		assert.Equal(t, "EUR", received[0].PreviousCurrency)
		assert.Equal(t, "USD", received[0].Currency)
		assert.Equal(t, result, service.Current())
	})

	t.Run("should reject unsupported currency", func(t *testing.T) {
		service, _, _ := setup()

		_, err := service.Update(context.Background(), Settings{Currency: "XYZ", Language: "en"})

		assert.ErrorIs(t, err, ErrInvalidSettings)
	})

	t.Run("should reject unsupported language", func(t *testing.T) {
		service, _, _ := setup()

		_, err := service.Update(context.Background(), Settings{Currency: "EUR", Language: "xx"})

		assert.ErrorIs(t, err, ErrInvalidSettings)
	})

	t.Run("should notify subscribers", func(t *testing.T) {
		// given
		service, _, _ := setup()
		var seen Settings
		var currencies []string
		unsubscribe := service.Subscribe(func(s Settings) { seen = s })
		defer unsubscribe()
		service.OnCurrencyChange(func(c string) { currencies = append(currencies, c) })

		// when
		_, err := service.Update(context.Background(), Settings{Currency: "GBP", Language: "en"})
		require.NoError(t, err)
		_, err = service.Update(context.Background(), Settings{DisplayName: "Bo", Currency: "GBP", Language: "en"})
		require.NoError(t, err)

		// then
		assert.Equal(t, "Bo", seen.DisplayName)
		assert.Equal(t, []string{"GBP"}, currencies)
	})

	t.Run("should return error when store fails", func(t *testing.T) {
		service, repo, _ := setup()
		_, _ = service.Get(context.Background())
		repo.FailWith = errors.New("disk full")

		_, err := service.Update(context.Background(), Settings{Currency: "EUR", Language: "en"})

		assert.Error(t, err)
	})
}

func TestService_WithoutEventBus(t *testing.T) {
	t.Run("should store settings when no event bus is configured", func(t *testing.T) {
		// given
		repo := NewStubRepository()
		service := NewService(repo, nil, defaultSettings)
		unsubscribe := service.OnCurrencyChange(func(string) {})
		defer unsubscribe()

		// when
		updated, err := service.Update(context.Background(), Settings{Currency: "usd", Language: "EN"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "USD", updated.Currency)
		stored, err := repo.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "USD", stored.Currency)
	})
}
