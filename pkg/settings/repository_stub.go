package settings

import "context"

type StubRepository struct {
	stored   *Settings
	FailWith error
}

func NewStubRepository() *StubRepository {
	return &StubRepository{}
}

func (s *StubRepository) Get(ctx context.Context) (Settings, error) {
	if s.FailWith != nil {
		return Settings{}, s.FailWith
	}
	if s.stored == nil {
		return Settings{}, ErrSettingsNotFound
	}
	return *s.stored, nil
}

func (s *StubRepository) Store(ctx context.Context, settings Settings) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.stored = &settings
	return nil
}
