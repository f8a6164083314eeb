package settings

import (
	"context"
	"errors"
	"sync"

	"github.com/pocketbook/pocketbook/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	repo     Repository
	eventBus *event_bus.EventBus
	defaults Settings

	mu      sync.RWMutex
	current Settings
	loaded  bool
}

// NewService creates the settings service. defaults are used until settings
// are stored for the first time.
func NewService(repo Repository, eventBus *event_bus.EventBus, defaults Settings) *Service {
	return &Service{repo: repo, eventBus: eventBus, defaults: defaults.Normalize()}
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.current, nil
	}
	s.mu.RUnlock()

	stored, err := s.repo.Get(ctx)
	if errors.Is(err, ErrSettingsNotFound) {
		stored = s.defaults
	} else if err != nil {
		return Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = stored
	s.loaded = true
	return stored, nil
}

// Current returns the cached settings, or the defaults when they could not be
// loaded.
func (s *Service) Current() Settings {
	current, err := s.Get(context.Background())
	if err != nil {
		log.Warnf("could not load settings, using defaults: %v", err)
		return s.defaults
	}
	return current
}

// Update validates and stores settings, then notifies subscribers.
func (s *Service) Update(ctx context.Context, settings Settings) (Settings, error) {
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	previous, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	if err := s.repo.Store(ctx, settings); err != nil {
		return Settings{}, err
	}

	s.mu.Lock()
	s.current = settings
	s.loaded = true
	s.mu.Unlock()

	if s.eventBus == nil {
		return settings, nil
	}
	err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.SettingsUpdated, event_bus.SettingsChanged{
		DisplayName:      settings.DisplayName,
		Currency:         settings.Currency,
		PreviousCurrency: previous.Currency,
		Language:         settings.Language,
	}))
	if err != nil {
		log.Errorf("failed to publish settings update: %v", err)
		return settings, err
	}
	return settings, nil
}

// Subscribe calls fn with the new settings after every successful update.
func (s *Service) Subscribe(fn func(Settings)) (unsubscribe func()) {
	if s.eventBus == nil {
		return func() {}
	}
	return event_bus.SubscribeTyped(s.eventBus, event_bus.SettingsUpdated, func(e event_bus.EventT[event_bus.SettingsChanged]) error {
		fn(Settings{DisplayName: e.Data.DisplayName, Currency: e.Data.Currency, Language: e.Data.Language})
		return nil
	})
}

// OnCurrencyChange calls fn with the new currency whenever an update changes it.
func (s *Service) OnCurrencyChange(fn func(currency string)) (unsubscribe func()) {
	if s.eventBus == nil {
		return func() {}
	}
	return event_bus.SubscribeTyped(s.eventBus, event_bus.SettingsUpdated, func(e event_bus.EventT[event_bus.SettingsChanged]) error {
		if e.Data.Currency != e.Data.PreviousCurrency {
			fn(e.Data.Currency)
		}
		return nil
	})
}
